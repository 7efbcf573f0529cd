package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ReplyLogRecord is one automated reply that was sent. Tags is nil when the
// stored record has no tags field at all.
type ReplyLogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
	Subject   string    `json:"subject,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the naive ISO forms written by
// datetime.isoformat and similar tools.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (r *ReplyLogRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp string   `json:"timestamp"`
		Tags      []string `json:"tags"`
		MessageID string   `json:"message_id"`
		ThreadID  string   `json:"thread_id"`
		Recipient string   `json:"recipient"`
		Subject   string   `json:"subject"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var ts time.Time
	if raw.Timestamp != "" {
		parsed, err := ParseTimestamp(raw.Timestamp)
		if err != nil {
			return err
		}
		ts = parsed
	}

	*r = ReplyLogRecord{
		Timestamp: ts,
		Tags:      raw.Tags,
		MessageID: raw.MessageID,
		ThreadID:  raw.ThreadID,
		Recipient: raw.Recipient,
		Subject:   raw.Subject,
	}
	return nil
}
