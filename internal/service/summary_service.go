package service

import (
	"context"
	"strings"

	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/parser"
)

const (
	noContentSummary = model.WarningMarker + "No content to summarise."
	noSummaryText    = model.WarningMarker + "No summary returned."
)

type summaryService struct {
	client CompletionClient
	logger *logger.Logger
}

func NewSummaryService(client CompletionClient, logger *logger.Logger) SummaryService {
	return &summaryService{
		client: client,
		logger: logger,
	}
}

// Summarize never returns an error: an empty body, a failed completion and
// an unreadable completion all come back as records with a sentinel tag.
func (s *summaryService) Summarize(ctx context.Context, subject, body string) model.SummaryRecord {
	if strings.TrimSpace(body) == "" {
		return model.SummaryRecord{
			Summary: noContentSummary,
			Tags:    []string{model.TagUnclassified},
		}
	}

	text, err := s.request(ctx, subject, body)
	if err != nil {
		s.logger.Error("Failed to summarise email:", err)
		return model.SummaryRecord{
			Summary: model.WarningMarker + "Completion error: " + err.Error(),
			Tags:    []string{model.TagError},
		}
	}

	var record model.SummaryRecord
	switch resp := parser.ParseSummary(text).(type) {
	case parser.Parsed:
		record = model.SummaryRecord{Summary: resp.Summary, Tags: nonEmpty(resp.Tags)}
	case parser.Unparseable:
		s.logger.Warnf("Unparseable summary response: %s", resp.Reason)
		record = model.SummaryRecord{Summary: resp.Summary}
	}

	if record.Summary == "" {
		record.Summary = noSummaryText
	}
	if len(record.Tags) == 0 {
		record.Tags = []string{model.TagUnclassified}
	}

	return record
}

// request is the single completion call behind Summarize.
func (s *summaryService) request(ctx context.Context, subject, body string) (string, error) {
	return s.client.Complete(ctx, model.CompletionRequest{
		System:      summarySystemPrompt,
		Prompt:      summaryPrompt(subject, body),
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
}

func nonEmpty(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
