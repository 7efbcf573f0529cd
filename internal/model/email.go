package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is one inbound message as produced by a mail source. Body is the
// extracted plain text and may be empty.
type Message struct {
	MessageID  string    `json:"message_id"`
	ThreadID   string    `json:"thread_id"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Part is a node of a message's structural tree. Data holds the node's
// content as URL-safe base64 text, the way the Gmail API returns it.
type Part struct {
	MimeType string  `json:"mime_type"`
	Data     string  `json:"data,omitempty"`
	Parts    []*Part `json:"parts,omitempty"`
}

// Email is a digest entry: a fetched message together with its summary.
type Email struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MessageID  string    `json:"message_id"`
	ThreadID   string    `json:"thread_id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	ReceivedAt time.Time `json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewEmail(userID string, msg *Message, record SummaryRecord) *Email {
	now := time.Now()
	return &Email{
		ID:         uuid.New().String(),
		UserID:     userID,
		MessageID:  msg.MessageID,
		ThreadID:   msg.ThreadID,
		From:       msg.Sender,
		Subject:    msg.Subject,
		Body:       msg.Body,
		Summary:    record.Summary,
		Tags:       record.Tags,
		ReceivedAt: msg.ReceivedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
