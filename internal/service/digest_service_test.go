package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailbrief/internal/ai"
	"mailbrief/internal/gmail"
	"mailbrief/internal/model"
	"mailbrief/internal/repository"
	"mailbrief/internal/repository/memory"
	"mailbrief/internal/service"
)

type digestFixture struct {
	svc       service.DigestService
	user      *model.User
	emails    *memory.InMemoryEmailRepository
	mail      *gmail.MockGmailClient
	completer *ai.MockAIClient
	aiCalls   atomic.Int32
	lastMail  struct {
		query      string
		maxResults int64
	}
}

func newDigestFixture(t *testing.T, messages []*model.Message) *digestFixture {
	t.Helper()
	ctx := context.Background()

	f := &digestFixture{
		emails:    memory.NewInMemoryEmailRepository(),
		mail:      gmail.NewMockGmailClient(),
		completer: ai.NewMockAIClient(),
	}

	users := memory.NewInMemoryUserRepository()
	f.user = model.NewUser("p1", "ana@example.com", "Ana", "token", "", time.Time{})
	require.NoError(t, users.Create(ctx, f.user))

	f.mail.ListMessagesFunc = func(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
		assert.Equal(t, "ana@example.com", userEmail)
		f.lastMail.query = query
		f.lastMail.maxResults = maxResults
		return messages, nil
	}
	f.completer.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		f.aiCalls.Add(1)
		return "Summary:\n• summary\nTags: [\"meeting\"]", nil
	}

	summarizer := service.NewSummaryService(f.completer, newTestLogger())
	f.svc = service.NewDigestService(f.emails, users, f.mail, summarizer, newTestLogger())
	return f
}

func testMessages(n int) []*model.Message {
	messages := make([]*model.Message, n)
	for i := range messages {
		messages[i] = &model.Message{
			MessageID: fmt.Sprintf("m%d", i),
			ThreadID:  fmt.Sprintf("t%d", i),
			Subject:   fmt.Sprintf("Subject %d", i),
			Body:      "body",
		}
	}
	return messages
}

func TestDigestKeepsMailOrder(t *testing.T) {
	f := newDigestFixture(t, testMessages(8))

	entries, err := f.svc.Digest(context.Background(), f.user.ID, service.DigestOptions{MaxResults: 8})
	require.NoError(t, err)
	require.Len(t, entries, 8)

	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("m%d", i), entry.MessageID)
		assert.Equal(t, "summary", entry.Summary)
		assert.Equal(t, []string{"meeting"}, entry.Tags)
		assert.Equal(t, f.user.ID, entry.UserID)
	}
	assert.Equal(t, "in:inbox category:primary", f.lastMail.query)
	assert.Equal(t, int64(8), f.lastMail.maxResults)
}

func TestDigestCachesSummaries(t *testing.T) {
	f := newDigestFixture(t, testMessages(3))
	ctx := context.Background()

	_, err := f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), f.aiCalls.Load())

	entries, err := f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int32(3), f.aiCalls.Load())

	for _, id := range []string{"m0", "m1", "m2"} {
		cached, err := f.emails.FindByMessageID(ctx, f.user.ID, id)
		require.NoError(t, err, id)
		assert.Equal(t, "summary", cached.Summary)
	}
}

func TestDigestDoesNotCacheDiagnostics(t *testing.T) {
	messages := testMessages(2)
	messages[1].Body = ""
	f := newDigestFixture(t, messages)
	f.completer.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		f.aiCalls.Add(1)
		return "", errors.New("timeout")
	}
	ctx := context.Background()

	entries, err := f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Error"}, entries[0].Tags)
	assert.Equal(t, []string{"Unclassified"}, entries[1].Tags)

	for _, id := range []string{"m0", "m1"} {
		_, err := f.emails.FindByMessageID(ctx, f.user.ID, id)
		assert.True(t, errors.Is(err, repository.ErrNotFound), id)
	}
}

func TestDigestForgetResummarises(t *testing.T) {
	f := newDigestFixture(t, testMessages(2))
	ctx := context.Background()

	_, err := f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.aiCalls.Load())

	require.NoError(t, f.svc.Forget(ctx, f.user.ID, "m1"))

	_, err = f.emails.FindByMessageID(ctx, f.user.ID, "m1")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = f.emails.FindByMessageID(ctx, f.user.ID, "m0")
	assert.NoError(t, err)

	_, err = f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), f.aiCalls.Load())
}

func TestDigestForgetUnknownMessage(t *testing.T) {
	f := newDigestFixture(t, testMessages(1))

	err := f.svc.Forget(context.Background(), f.user.ID, "never-seen")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestDigestBuildsQueryFromOptions(t *testing.T) {
	f := newDigestFixture(t, nil)

	_, err := f.svc.Digest(context.Background(), f.user.ID, service.DigestOptions{
		IncludeArchived: true,
		Start:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "in:anywhere after:2024/05/01 before:2024/06/01", f.lastMail.query)
}

func TestDigestErrors(t *testing.T) {
	f := newDigestFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Digest(ctx, "unknown-user", service.DigestOptions{})
	assert.ErrorContains(t, err, "failed to get user")

	f.mail.ListMessagesFunc = func(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
		return nil, errors.New("invalid credentials")
	}
	_, err = f.svc.Digest(ctx, f.user.ID, service.DigestOptions{})
	assert.ErrorContains(t, err, "invalid credentials")
}
