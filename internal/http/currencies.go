package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"
	"github.com/sherlingdev/flare-sub001/internal/repository"
)

func listCurrenciesHandler(repo repository.CurrenciesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := repo.List(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("list currencies failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"count":   len(list),
			"results": list,
		})
	}
}
