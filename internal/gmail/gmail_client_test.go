package gmail

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailbrief/internal/extract"
	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/repository"
	"mailbrief/internal/repository/memory"
	"mailbrief/internal/service"
)

const messageJSON = `{
  "id": "m1",
  "threadId": "t1",
  "internalDate": "1700000000000",
  "payload": {
    "mimeType": "multipart/alternative",
    "headers": [
      {"name": "subject", "value": "Quarterly review"},
      {"name": "FROM", "value": "Ana <ana@example.com>"}
    ],
    "parts": [
      {"mimeType": "text/html", "body": {"data": "PHA-SGk8L3A-"}},
      {"mimeType": "text/plain", "body": {"data": "SGVsbG8"}}
    ]
  }
}`

func newFakeGmail(t *testing.T, listQuery *url.Values) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		*listQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"messages":[{"id":"m1","threadId":"t1"},{"id":"missing","threadId":"t2"}]}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageJSON)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *gmailClient {
	t.Helper()
	client, err := newGmailClient(context.Background(), logger.NewWithWriter(io.Discard),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	return client
}

func TestListMessagesWithQuery(t *testing.T) {
	var query url.Values
	client := newTestClient(t, newFakeGmail(t, &query))

	messages, err := client.ListMessages(context.Background(), "me@example.com", "in:anywhere after:2024/01/01", 5)
	require.NoError(t, err)

	assert.Equal(t, "in:anywhere after:2024/01/01", query.Get("q"))
	assert.Equal(t, "5", query.Get("maxResults"))
	assert.Empty(t, query.Get("labelIds"))

	// The message that failed to load is skipped.
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, "Quarterly review", msg.Subject)
	assert.Equal(t, "Ana <ana@example.com>", msg.Sender)
	assert.Equal(t, "Hello", msg.Body)
	assert.Equal(t, int64(1700000000000), msg.ReceivedAt.UnixMilli())
}

func TestListMessagesWithoutQueryUsesInbox(t *testing.T) {
	var query url.Values
	client := newTestClient(t, newFakeGmail(t, &query))

	_, err := client.ListMessages(context.Background(), "me@example.com", "", 0)
	require.NoError(t, err)

	assert.Equal(t, "INBOX", query.Get("labelIds"))
	assert.Empty(t, query.Get("q"))
}

func TestConvertPart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Body:     &gmail.MessagePartBody{},
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: extract.Encode([]byte("plain text"))}},
			{MimeType: "application/pdf"},
		},
	}

	part := convertPart(payload)
	require.Len(t, part.Parts, 2)
	assert.Equal(t, "multipart/mixed", part.MimeType)
	assert.Equal(t, "", part.Parts[1].Data)
	assert.Equal(t, "plain text", extract.Body(part))

	assert.Nil(t, convertPart(nil))
}

func TestToMessageWithoutPayload(t *testing.T) {
	msg := toMessage(&gmail.Message{Id: "x", ThreadId: "y"})
	assert.Equal(t, "x", msg.MessageID)
	assert.Equal(t, "", msg.Body)
}

func TestUserSpecificGmailClient(t *testing.T) {
	ctx := context.Background()
	users := memory.NewInMemoryUserRepository()
	require.NoError(t, users.Create(ctx, model.NewUser("p1", "ana@example.com", "Ana", "token-1", "", time.Time{})))
	require.NoError(t, users.Create(ctx, model.NewUser("p2", "bob@example.com", "Bob", "", "", time.Time{})))

	var gotToken string
	mock := NewMockGmailClient()
	mock.ListMessagesFunc = func(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
		return []*model.Message{{MessageID: "m1"}}, nil
	}
	factory := func(ctx context.Context, accessToken string, l *logger.Logger) (service.MailClient, error) {
		gotToken = accessToken
		return mock, nil
	}

	client := NewUserSpecificGmailClient(users, factory, logger.NewWithWriter(io.Discard))

	messages, err := client.ListMessages(ctx, "ana@example.com", "", 3)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "token-1", gotToken)

	_, err = client.ListMessages(ctx, "bob@example.com", "", 3)
	assert.ErrorContains(t, err, "access token not available")

	_, err = client.ListMessages(ctx, "nobody@example.com", "", 3)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
