package http

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v4"
	"github.com/sherlingdev/flare-sub001/internal/repository"
)

func historyHandler(repo repository.HistoryRepository, defaultBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		base := normalizeCode(c.QueryParam("base"))
		if base == "" {
			base = defaultBase
		}
		quote := normalizeCode(c.QueryParam("quote"))
		if quote == "" {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "quote is required"})
		}

		days := 30
		if v := c.QueryParam("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
				days = n
			}
		}

		rows, err := repo.ListPair(c.Request().Context(), base, quote, days, 0)
		if err != nil {
			c.Logger().Errorf("history query failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"base":    base,
			"quote":   quote,
			"days":    days,
			"count":   len(rows),
			"results": rows,
		})
	}
}
