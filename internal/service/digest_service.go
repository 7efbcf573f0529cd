package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/repository"
)

// DigestOptions selects which messages a digest covers. Zero Start or End
// leaves that side of the date range open.
type DigestOptions struct {
	MaxResults      int64
	IncludeArchived bool
	Start           time.Time
	End             time.Time
}

type digestService struct {
	emailRepo  repository.EmailRepository
	userRepo   repository.UserRepository
	mailClient MailClient
	summarizer SummaryService
	logger     *logger.Logger
}

func NewDigestService(
	emailRepo repository.EmailRepository,
	userRepo repository.UserRepository,
	mailClient MailClient,
	summarizer SummaryService,
	logger *logger.Logger,
) DigestService {
	return &digestService{
		emailRepo:  emailRepo,
		userRepo:   userRepo,
		mailClient: mailClient,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Digest fetches the user's messages and summarises each of them. Entries
// come back in the mail source's order. Successful summaries are cached per
// message; diagnostic ones are retried on the next call.
func (s *digestService) Digest(ctx context.Context, userID string, opts DigestOptions) ([]*model.Email, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	query := BuildMailQuery(opts.IncludeArchived, opts.Start, opts.End)
	messages, err := s.mailClient.ListMessages(ctx, user.Email, query, opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	s.logger.Infof("Building digest of %d messages for user %s", len(messages), userID)

	entries := make([]*model.Email, len(messages))
	var wg sync.WaitGroup

	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg *model.Message) {
			defer wg.Done()
			entries[i] = s.entry(ctx, userID, msg)
		}(i, msg)
	}

	wg.Wait()

	return entries, nil
}

func (s *digestService) entry(ctx context.Context, userID string, msg *model.Message) *model.Email {
	if cached, err := s.emailRepo.FindByMessageID(ctx, userID, msg.MessageID); err == nil && cached != nil {
		s.logger.Debug("Using cached summary for message:", msg.MessageID)
		return cached
	}

	record := s.summarizer.Summarize(ctx, msg.Subject, msg.Body)
	email := model.NewEmail(userID, msg, record)

	if record.IsDiagnostic() {
		return email
	}

	if err := s.emailRepo.Create(ctx, email); err != nil {
		s.logger.Error("Failed to cache summary:", err)
	}
	return email
}

// Forget drops the cached summary of one message so the next digest asks
// for a fresh one. A message that was never cached wraps
// repository.ErrNotFound.
func (s *digestService) Forget(ctx context.Context, userID, messageID string) error {
	cached, err := s.emailRepo.FindByMessageID(ctx, userID, messageID)
	if err != nil {
		return fmt.Errorf("failed to find cached summary: %w", err)
	}

	if err := s.emailRepo.Delete(ctx, cached.ID); err != nil {
		return fmt.Errorf("failed to forget summary: %w", err)
	}

	s.logger.Infof("Forgot cached summary of message %s for user %s", messageID, userID)
	return nil
}
