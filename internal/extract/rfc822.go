package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"mailbrief/internal/model"
)

// ReadRFC822 parses a raw RFC 822 message (an .eml file, an IMAP BODY[]
// literal) into a Message. The MIME structure is first converted into the
// same part tree the Gmail API returns, so Body applies unchanged.
func ReadRFC822(r io.Reader) (*model.Message, *model.Part, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return nil, nil, fmt.Errorf("reading message: %w", err)
	}

	root, err := buildPart(entity)
	if err != nil {
		return nil, nil, err
	}

	header := mail.Header{Header: entity.Header}
	subject, _ := header.Subject()
	from := header.Get("From")
	date, err := header.Date()
	if err != nil {
		date = time.Time{}
	}

	msg := &model.Message{
		MessageID:  strings.Trim(header.Get("Message-Id"), "<>"),
		ThreadID:   threadID(header),
		Sender:     from,
		Subject:    subject,
		Body:       Body(root),
		ReceivedAt: date,
	}
	return msg, root, nil
}

// buildPart walks one level of multipart children, matching the shape of a
// Gmail "full" payload: leaves carry their decoded bytes re-encoded as
// URL-safe base64, containers carry only their children.
func buildPart(entity *message.Entity) (*model.Part, error) {
	mediaType, _, err := entity.Header.ContentType()
	if err != nil || mediaType == "" {
		mediaType = mimeTextPlain
	}

	part := &model.Part{MimeType: mediaType}

	if mr := entity.MultipartReader(); mr != nil {
		for {
			child, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
				return nil, fmt.Errorf("reading %s part: %w", mediaType, err)
			}
			if child == nil {
				break
			}

			childPart, err := buildPart(child)
			if err != nil {
				return nil, err
			}
			part.Parts = append(part.Parts, childPart)
		}
		return part, nil
	}

	raw, err := io.ReadAll(entity.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s body: %w", mediaType, err)
	}
	part.Data = Encode(raw)
	return part, nil
}

// threadID picks the root of the References chain, falling back to the
// message's own id.
func threadID(h mail.Header) string {
	refs := strings.Fields(h.Get("References"))
	if len(refs) > 0 {
		return strings.Trim(refs[0], "<>")
	}
	if irt := strings.TrimSpace(h.Get("In-Reply-To")); irt != "" {
		return strings.Trim(irt, "<>")
	}
	return strings.Trim(h.Get("Message-Id"), "<>")
}
