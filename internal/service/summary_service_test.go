package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailbrief/internal/ai"
	"mailbrief/internal/model"
	"mailbrief/internal/service"
)

func newSummaryService(text string, err error) (service.SummaryService, *ai.MockAIClient) {
	client := ai.NewMockAIClient()
	client.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		return text, err
	}
	return service.NewSummaryService(client, newTestLogger()), client
}

func TestSummarizeEmptyBodySkipsCompletion(t *testing.T) {
	svc, client := newSummaryService("unused", nil)

	record := svc.Summarize(context.Background(), "Subject", "")

	assert.Equal(t, model.SummaryRecord{
		Summary: "⚠️ No content to summarise.",
		Tags:    []string{"Unclassified"},
	}, record)
	assert.Empty(t, client.Requests())
}

func TestSummarizeWellFormedResponse(t *testing.T) {
	svc, client := newSummaryService("Summary:\n• A\nTags:\n[\"X\", \"Y\"]", nil)

	record := svc.Summarize(context.Background(), "Lunch", "Are we still on for lunch?")

	assert.Equal(t, model.SummaryRecord{Summary: "A", Tags: []string{"X", "Y"}}, record)

	requests := client.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, 600, req.MaxTokens)
	assert.InDelta(t, 0.4, req.Temperature, 1e-9)
	assert.NotEmpty(t, req.System)
	assert.Contains(t, req.Prompt, "Email Subject: Lunch")
	assert.Contains(t, req.Prompt, "Are we still on for lunch?")
	assert.Contains(t, req.Prompt, "Tags:")
}

func TestSummarizeWithoutTagsMarker(t *testing.T) {
	svc, _ := newSummaryService("Summary:\n• Just a summary with no tag section", nil)

	record := svc.Summarize(context.Background(), "s", "body")

	assert.Equal(t, []string{"Unclassified"}, record.Tags)
	assert.Equal(t, "Just a summary with no tag section", record.Summary)
}

func TestSummarizeMalformedTagList(t *testing.T) {
	svc, _ := newSummaryService("Summary:\n• Pay the invoice\nTags: [Invoice, __import__('os')]", nil)

	record := svc.Summarize(context.Background(), "s", "body")

	assert.Equal(t, []string{"Unclassified"}, record.Tags)
	assert.Equal(t, "Pay the invoice", record.Summary)
}

func TestSummarizeEmptyResponseKeepsRecordNonEmpty(t *testing.T) {
	svc, _ := newSummaryService("", nil)

	record := svc.Summarize(context.Background(), "s", "body")

	assert.True(t, record.IsDiagnostic())
	assert.NotEmpty(t, record.Summary)
	assert.Equal(t, []string{"Unclassified"}, record.Tags)
}

func TestSummarizeEmptyTagList(t *testing.T) {
	svc, _ := newSummaryService("Summary: fine\nTags: [\"\"]", nil)

	record := svc.Summarize(context.Background(), "s", "body")

	assert.Equal(t, "fine", record.Summary)
	assert.Equal(t, []string{"Unclassified"}, record.Tags)
}

func TestSummarizeCompletionFailure(t *testing.T) {
	svc, _ := newSummaryService("", errors.New("quota exceeded"))

	record := svc.Summarize(context.Background(), "s", "body")

	assert.Equal(t, []string{"Error"}, record.Tags)
	assert.True(t, strings.HasPrefix(record.Summary, "⚠️ "))
	assert.Contains(t, record.Summary, "quota exceeded")
}
