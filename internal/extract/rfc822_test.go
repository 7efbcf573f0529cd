package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartMessage = "From: Alice <alice@example.com>\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Quarterly invoice\r\n" +
	"Date: Mon, 02 Jun 2025 10:15:00 +0000\r\n" +
	"Message-Id: <m1@example.com>\r\n" +
	"References: <root@example.com> <m0@example.com>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>Please pay the invoice.</p>\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Please pay the invoice by Friday.=0AThanks.\r\n" +
	"--b1--\r\n"

func TestReadRFC822Multipart(t *testing.T) {
	msg, root, err := ReadRFC822(strings.NewReader(multipartMessage))
	require.NoError(t, err)

	assert.Equal(t, "multipart/alternative", root.MimeType)
	require.Len(t, root.Parts, 2)
	assert.Equal(t, "text/html", root.Parts[0].MimeType)
	assert.Equal(t, "text/plain", root.Parts[1].MimeType)

	assert.Equal(t, "Quarterly invoice", msg.Subject)
	assert.Equal(t, "Alice <alice@example.com>", msg.Sender)
	assert.Equal(t, "m1@example.com", msg.MessageID)
	assert.Equal(t, "root@example.com", msg.ThreadID)
	assert.Equal(t, 2025, msg.ReceivedAt.Year())
	assert.Contains(t, msg.Body, "Please pay the invoice by Friday.\nThanks.")
}

func TestReadRFC822SinglePart(t *testing.T) {
	raw := "From: carol@example.com\r\n" +
		"Subject: hi\r\n" +
		"\r\n" +
		"just text\r\n"

	msg, root, err := ReadRFC822(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Empty(t, root.Parts)
	assert.Equal(t, "text/plain", root.MimeType)
	assert.Equal(t, "just text\r\n", msg.Body)
	assert.Equal(t, "", msg.ThreadID)
}
