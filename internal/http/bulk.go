package http

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
)

type bulkRatesReq struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// bulkRatesHandler ingests a full rate table in one call. The path sits on
// the gatekeeper's bypass allowlist: internal jobs push hundreds of rows
// and must not burn caller quotas.
func bulkRatesHandler(repo repository.RatesRepository, svc *ratesvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req bulkRatesReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		req.Base = normalizeCode(req.Base)
		if req.Base == "" || len(req.Rates) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "base and rates are required"})
		}

		now := time.Now()
		rows := make([]model.ExchangeRate, 0, len(req.Rates))
		for quote, rate := range req.Rates {
			rows = append(rows, model.ExchangeRate{
				Base:      req.Base,
				Quote:     normalizeCode(quote),
				Rate:      rate,
				FetchedAt: now,
			})
		}

		if err := repo.UpsertBatch(c.Request().Context(), rows); err != nil {
			log.Errorf("bulk upsert failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		svc.Invalidate(c.Request().Context(), req.Base)

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"base":    req.Base,
			"count":   len(rows),
		})
	}
}
