package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/parser"
	"mailbrief/internal/service"
)

type SummaryHandler struct {
	summaryService service.SummaryService
	tagService     service.TagService
	logger         echo.Logger
}

func NewSummaryHandler(summaryService service.SummaryService, tagService service.TagService, logger echo.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		tagService:     tagService,
		logger:         logger,
	}
}

type summarizeRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type tagsRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	MaxTags int    `json:"max_tags"`
}

// Summarize always answers 200; failures are reported inside the record.
func (h *SummaryHandler) Summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	record := h.summaryService.Summarize(c.Request().Context(), req.Subject, req.Body)
	return c.JSON(http.StatusOK, record)
}

func (h *SummaryHandler) GenerateTags(c echo.Context) error {
	var req tagsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "subject or body is required",
		})
	}

	tags, err := h.tagService.GenerateTags(c.Request().Context(), req.Subject, req.Body, req.MaxTags)
	if err != nil {
		h.logger.Error("Failed to generate tags:", err)
		if errors.Is(err, parser.ErrUnparseable) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string][]string{
		"tags": tags,
	})
}
