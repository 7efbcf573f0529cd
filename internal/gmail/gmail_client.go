package gmail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailbrief/internal/extract"
	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/service"
)

const (
	gmailUser  = "me" // Use 'me' to refer to the authenticated user
	inboxLabel = "INBOX"
)

type gmailClient struct {
	client *gmail.Service
	logger *logger.Logger
}

func NewGmailClient(ctx context.Context, accessToken string, logger *logger.Logger) (service.MailClient, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return newGmailClient(ctx, logger, option.WithTokenSource(tokenSource))
}

func newGmailClient(ctx context.Context, logger *logger.Logger, opts ...option.ClientOption) (*gmailClient, error) {
	gmailService, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &gmailClient{
		client: gmailService,
		logger: logger,
	}, nil
}

// ListMessages lists messages matching query and fetches each in full. An
// empty query lists the inbox. Messages that fail to load are skipped.
func (g *gmailClient) ListMessages(ctx context.Context, userEmail, query string, maxResults int64) ([]*model.Message, error) {
	call := g.client.Users.Messages.List(gmailUser).Context(ctx)
	if query == "" {
		call = call.LabelIds(inboxLabel)
	} else {
		call = call.Q(query)
	}
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*model.Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := g.client.Users.Messages.Get(gmailUser, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.logger.Error("Failed to get message:", ref.Id, err)
			continue
		}
		messages = append(messages, toMessage(msg))
	}

	g.logger.Info("Fetched", len(messages), "messages from Gmail for", userEmail)
	return messages, nil
}

func toMessage(msg *gmail.Message) *model.Message {
	out := &model.Message{
		MessageID:  msg.Id,
		ThreadID:   msg.ThreadId,
		ReceivedAt: time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload == nil {
		return out
	}

	for _, header := range msg.Payload.Headers {
		switch {
		case strings.EqualFold(header.Name, "Subject"):
			out.Subject = header.Value
		case strings.EqualFold(header.Name, "From"):
			out.Sender = header.Value
		}
	}

	out.Body = extract.Body(convertPart(msg.Payload))
	return out
}

// convertPart copies the Gmail payload tree into the model's part tree.
func convertPart(part *gmail.MessagePart) *model.Part {
	if part == nil {
		return nil
	}

	out := &model.Part{MimeType: part.MimeType}
	if part.Body != nil {
		out.Data = part.Body.Data
	}
	for _, child := range part.Parts {
		if c := convertPart(child); c != nil {
			out.Parts = append(out.Parts, c)
		}
	}
	return out
}
