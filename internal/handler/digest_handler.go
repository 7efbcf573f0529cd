package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/config"
	"mailbrief/internal/repository"
	"mailbrief/internal/service"
)

const dateParamLayout = "2006-01-02"

type DigestHandler struct {
	digestService service.DigestService
	settings      *config.SettingsStore
	users         CurrentUserProvider
	logger        echo.Logger
}

func NewDigestHandler(digestService service.DigestService, settings *config.SettingsStore, users CurrentUserProvider, logger echo.Logger) *DigestHandler {
	return &DigestHandler{
		digestService: digestService,
		settings:      settings,
		users:         users,
		logger:        logger,
	}
}

// GetDigest fetches and summarises the user's messages. Query parameters
// max_results and include_archived override the saved settings; start and
// end (YYYY-MM-DD) bound the date range.
func (h *DigestHandler) GetDigest(c echo.Context) error {
	user, err := h.users.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	settings := h.settings.Get()
	opts := service.DigestOptions{
		MaxResults:      int64(settings.MaxResults),
		IncludeArchived: settings.IncludeArchived,
	}

	if v := c.QueryParam("max_results"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "max_results must be a positive integer",
			})
		}
		opts.MaxResults = parsed
	}

	if v := c.QueryParam("include_archived"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "include_archived must be a boolean",
			})
		}
		opts.IncludeArchived = parsed
	}

	if opts.Start, err = parseDateParam(c, "start"); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "start must be a date in YYYY-MM-DD format",
		})
	}
	if opts.End, err = parseDateParam(c, "end"); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "end must be a date in YYYY-MM-DD format",
		})
	}
	if !opts.Start.IsZero() && !opts.End.IsZero() && opts.End.Before(opts.Start) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "end must not be before start",
		})
	}

	entries, err := h.digestService.Digest(c.Request().Context(), user.ID, opts)
	if err != nil {
		h.logger.Error("Failed to build digest:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to build digest",
		})
	}

	return c.JSON(http.StatusOK, entries)
}

// ForgetSummary evicts one cached summary; the next digest summarises the
// message again.
func (h *DigestHandler) ForgetSummary(c echo.Context) error {
	user, err := h.users.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	if err := h.digestService.Forget(c.Request().Context(), user.ID, c.Param("message_id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "No cached summary for this message",
			})
		}
		h.logger.Error("Failed to forget summary:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to forget summary",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

func parseDateParam(c echo.Context, name string) (time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateParamLayout, v)
}
