package service

import (
	"context"
	"time"

	"mailbrief/internal/model"
)

type AuthService interface {
	GetOrCreateUser(ctx context.Context, providerID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// SummaryService turns one message into a SummaryRecord. It never fails:
// problems are reported inside the record.
type SummaryService interface {
	Summarize(ctx context.Context, subject, body string) model.SummaryRecord
}

// TagService classifies a message against a closed vocabulary.
type TagService interface {
	GenerateTags(ctx context.Context, subject, body string, maxTags int) ([]string, error)
}

type AnalyticsService interface {
	Stats(ctx context.Context) (*model.Stats, error)
}

type DigestService interface {
	Digest(ctx context.Context, userID string, opts DigestOptions) ([]*model.Email, error)
	Forget(ctx context.Context, userID, messageID string) error
}

// MailClient is the mail source: it lists messages matching a search query
// and returns them with their bodies already extracted.
type MailClient interface {
	ListMessages(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error)
}

// CompletionClient sends a prompt to a text-completion provider and returns
// the raw text it produced.
type CompletionClient interface {
	Complete(ctx context.Context, req model.CompletionRequest) (string, error)
}
