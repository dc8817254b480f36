package http

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	"github.com/sherlingdev/flare-sub001/internal/util"
)

// keysInfoHandler describes the key program. Reads here are never
// rate-limited so the signup page can always load.
func keysInfoHandler(authenticatedLimit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "POST to this endpoint with a label to receive an API key.",
			"limits": map[string]any{
				"anonymous":     "1 request per minute",
				"authenticated": authenticatedLimit,
			},
		})
	}
}

type createKeyReq struct {
	Label string `json:"label"`
}

func createKeyHandler(repo repository.APIKeysRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createKeyReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		req.Label = strings.TrimSpace(req.Label)
		if req.Label == "" || len(req.Label) > 100 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "label is required"})
		}

		k := model.APIKey{
			ID:       util.NewULID(),
			Key:      util.NewAPIKey(),
			Label:    req.Label,
			IsActive: true,
		}
		if err := repo.Insert(c.Request().Context(), k); err != nil {
			c.Logger().Errorf("insert api key failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		// The full key is shown exactly once, at creation.
		return c.JSON(http.StatusCreated, map[string]any{
			"success": true,
			"id":      k.ID,
			"apiKey":  k.Key,
			"label":   k.Label,
		})
	}
}

func deactivateKeyHandler(repo repository.APIKeysRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "missing id"})
		}
		if err := repo.Deactivate(c.Request().Context(), id); err != nil {
			c.Logger().Errorf("deactivate api key failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{"success": true, "id": id})
	}
}
