package gmail

import (
	"context"

	"mailbrief/internal/model"
)

// MockGmailClient is a mock implementation of MailClient for testing
type MockGmailClient struct {
	ListMessagesFunc func(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error)
}

func NewMockGmailClient() *MockGmailClient {
	return &MockGmailClient{}
}

func (m *MockGmailClient) ListMessages(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userEmail, query, maxResults)
	}

	// Default mock behavior: return an empty list
	return []*model.Message{}, nil
}
