package ai

import (
	"context"
	"sync"

	"mailbrief/internal/model"
)

// MockAIClient is a mock implementation of CompletionClient for testing
type MockAIClient struct {
	CompleteFunc func(ctx context.Context, req model.CompletionRequest) (string, error)

	mu       sync.Mutex
	requests []model.CompletionRequest
}

func NewMockAIClient() *MockAIClient {
	return &MockAIClient{}
}

func (m *MockAIClient) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}

	// Default mock behavior: a well-formed summary with one tag
	return "Summary:\n• Mock summary\nTags: [\"Miscellaneous\"]", nil
}

// Requests returns every request the mock has received, in order.
func (m *MockAIClient) Requests() []model.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
