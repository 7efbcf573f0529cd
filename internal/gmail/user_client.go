package gmail

import (
	"context"
	"fmt"

	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/repository"
	"mailbrief/internal/service"
)

// ClientFactory builds a mail client bound to one access token.
type ClientFactory func(ctx context.Context, accessToken string, logger *logger.Logger) (service.MailClient, error)

// UserSpecificGmailClient looks up the signed-in user's access token on every
// call and delegates to a client built for that token.
type UserSpecificGmailClient struct {
	userRepo repository.UserRepository
	factory  ClientFactory
	logger   *logger.Logger
}

func NewUserSpecificGmailClient(userRepo repository.UserRepository, factory ClientFactory, logger *logger.Logger) service.MailClient {
	if factory == nil {
		factory = NewGmailClient
	}
	return &UserSpecificGmailClient{
		userRepo: userRepo,
		factory:  factory,
		logger:   logger,
	}
}

func (u *UserSpecificGmailClient) ListMessages(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
	// Find user by email to get their access token
	user, err := u.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("user not found or access token not available for email %s: %w", userEmail, err)
	}

	if !user.HasToken() {
		return nil, fmt.Errorf("access token not available for user: %s", userEmail)
	}

	client, err := u.factory(ctx, user.AccessToken, u.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	return client.ListMessages(ctx, userEmail, query, maxResults)
}
