package model

// Sentinel tags used when a message cannot be classified.
const (
	TagUnclassified = "Unclassified"
	TagError        = "Error"
)

// WarningMarker prefixes summaries that carry a diagnostic instead of content.
const WarningMarker = "⚠️ "

// SummaryRecord is the validated result of summarising one message. Tags is
// never empty and Summary is never empty.
type SummaryRecord struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// IsDiagnostic reports whether the record holds a failure message.
func (r SummaryRecord) IsDiagnostic() bool {
	return len(r.Summary) >= len(WarningMarker) && r.Summary[:len(WarningMarker)] == WarningMarker
}

// CompletionRequest is what the summariser and tagger send to a completion
// provider.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}
