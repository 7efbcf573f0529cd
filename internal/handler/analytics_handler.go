package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/model"
	"mailbrief/internal/repository"
	"mailbrief/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	replyLog         repository.ReplyLogRepository
	logger           echo.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, replyLog repository.ReplyLogRepository, logger echo.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		replyLog:         replyLog,
		logger:           logger,
	}
}

type statsResponse struct {
	*model.Stats
	TopTags []model.TagCount `json:"top_tags"`
	Days    []model.DayCount `json:"days"`
}

func (h *AnalyticsHandler) GetStats(c echo.Context) error {
	stats, err := h.analyticsService.Stats(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrReplyLogNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "No reply log found",
			})
		}
		h.logger.Error("Failed to compute stats:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(http.StatusOK, statsResponse{
		Stats:   stats,
		TopTags: stats.TopTags(),
		Days:    stats.Days(),
	})
}

// RecordReply appends one sent reply to the log. A missing timestamp means
// now.
func (h *AnalyticsHandler) RecordReply(c echo.Context) error {
	var record model.ReplyLogRecord
	if err := c.Bind(&record); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	if err := h.replyLog.Append(c.Request().Context(), record); err != nil {
		h.logger.Error("Failed to record reply:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to record reply",
		})
	}

	return c.JSON(http.StatusCreated, record)
}
