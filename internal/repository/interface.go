package repository

import (
	"context"
	"errors"

	"mailbrief/internal/model"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrReplyLogNotFound means the reply log source does not exist. It is
	// never reported as an empty log.
	ErrReplyLogNotFound = errors.New("reply log not found")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, providerID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// EmailRepository caches summarised digest entries per user
type EmailRepository interface {
	Create(ctx context.Context, email *model.Email) error
	FindByMessageID(ctx context.Context, userID, messageID string) (*model.Email, error)
	Delete(ctx context.Context, id string) error
}

// ReplyLogRepository reads and appends sent-reply records
type ReplyLogRepository interface {
	Append(ctx context.Context, record model.ReplyLogRecord) error
	LoadAll(ctx context.Context) ([]model.ReplyLogRecord, error)
}
