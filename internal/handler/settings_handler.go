package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/config"
)

type SettingsHandler struct {
	store  *config.SettingsStore
	logger echo.Logger
}

func NewSettingsHandler(store *config.SettingsStore, logger echo.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Get())
}

// UpdateSettings applies the fields present in the body on top of the
// current settings.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	next := h.store.Get().Clone()
	if err := c.Bind(&next); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if err := h.store.Update(next); err != nil {
		if errors.Is(err, config.ErrInvalidSettings) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to save settings:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save settings",
		})
	}

	return c.JSON(http.StatusOK, next)
}
