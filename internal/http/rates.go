package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
)

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func latestRatesHandler(svc *ratesvc.Service, defaultBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		base := normalizeCode(c.QueryParam("base"))
		if base == "" {
			base = defaultBase
		}

		list, err := svc.Latest(c.Request().Context(), base)
		if err != nil {
			c.Logger().Errorf("latest rates failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"base":    base,
			"count":   len(list),
			"results": list,
		})
	}
}

func rateByCodeHandler(svc *ratesvc.Service, defaultBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		base := normalizeCode(c.QueryParam("base"))
		if base == "" {
			base = defaultBase
		}
		code := normalizeCode(c.Param("code"))
		if code == "" {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "missing code"})
		}

		list, err := svc.Latest(c.Request().Context(), base)
		if err != nil {
			c.Logger().Errorf("rate lookup failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}
		for _, er := range list {
			if er.Quote == code {
				return c.JSON(http.StatusOK, map[string]any{"success": true, "result": er})
			}
		}

		return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "unknown currency"})
	}
}

func convertHandler(svc *ratesvc.Service, defaultBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		from := normalizeCode(c.QueryParam("from"))
		to := normalizeCode(c.QueryParam("to"))
		amountRaw := strings.TrimSpace(c.QueryParam("amount"))

		if from == "" || to == "" || amountRaw == "" {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "from, to and amount are required"})
		}
		amount, err := strconv.ParseFloat(amountRaw, 64)
		if err != nil || amount < 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid amount"})
		}

		result, err := svc.Convert(c.Request().Context(), defaultBase, from, to, amount)
		if err != nil {
			if errors.Is(err, ratesvc.ErrUnknownCurrency) {
				return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "unknown currency"})
			}
			c.Logger().Errorf("convert failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"from":    from,
			"to":      to,
			"amount":  amount,
			"result":  result,
		})
	}
}
