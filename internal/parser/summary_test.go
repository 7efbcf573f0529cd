package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryWellFormed(t *testing.T) {
	resp := ParseSummary("Summary:\n• A\nTags:\n[\"X\", \"Y\"]")

	parsed, ok := resp.(Parsed)
	require.True(t, ok, "expected Parsed, got %#v", resp)
	assert.Equal(t, "A", parsed.Summary)
	assert.Equal(t, []string{"X", "Y"}, parsed.Tags)
}

func TestParseSummaryMultipleBullets(t *testing.T) {
	text := `Summary:
• Budget review moved to Thursday.
• Slides are due Wednesday night.
  - Send them to Dana.

Tags:
[ "Meeting", "Urgent" ]`

	parsed, ok := ParseSummary(text).(Parsed)
	require.True(t, ok)
	assert.Equal(t, "Budget review moved to Thursday.\nSlides are due Wednesday night.\nSend them to Dana.", parsed.Summary)
	assert.Equal(t, []string{"Meeting", "Urgent"}, parsed.Tags)
}

func TestParseSummaryMissingTagsMarker(t *testing.T) {
	resp := ParseSummary("Summary:\n• The model forgot the tags.")

	un, ok := resp.(Unparseable)
	require.True(t, ok, "expected Unparseable, got %#v", resp)
	assert.Equal(t, "The model forgot the tags.", un.Summary)
	assert.Contains(t, un.Reason, "Tags:")
}

func TestParseSummaryTagsNotBracketed(t *testing.T) {
	un, ok := ParseSummary("Summary:\n• Hi\nTags: Meeting, Invoice").(Unparseable)
	require.True(t, ok)
	assert.Equal(t, "Hi", un.Summary)
}

func TestParseSummaryMalformedList(t *testing.T) {
	_, ok := ParseSummary("Summary:\n• Hi\nTags:\n[\"Meeting\", Invoice]").(Unparseable)
	assert.True(t, ok)
}

func TestParseSummarySplitsOnFirstMarker(t *testing.T) {
	parsed, ok := ParseSummary("Summary:\n• x\nTags:\n[\"a\"]\nTags: [\"b\"]").(Parsed)
	assert.False(t, ok, "second marker is trailing text, got %#v", parsed)
}

func TestParseSummaryEmptyText(t *testing.T) {
	un, ok := ParseSummary("").(Unparseable)
	require.True(t, ok)
	assert.Equal(t, "", un.Summary)
}
