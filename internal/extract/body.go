// Package extract turns a message's part tree into one plain-text body.
package extract

import (
	"encoding/base64"
	"strings"

	"mailbrief/internal/model"
)

const mimeTextPlain = "text/plain"

// Body returns the canonical plain-text body of a part tree.
//
// A leaf root is decoded directly. A root with children yields the first
// child whose MIME type is exactly text/plain; HTML and other alternatives
// are never used as a fallback. Missing or undecodable data yields "".
func Body(root *model.Part) string {
	if root == nil {
		return ""
	}

	if len(root.Parts) == 0 {
		return Decode(root.Data)
	}

	for _, part := range root.Parts {
		if part != nil && part.MimeType == mimeTextPlain {
			return Decode(part.Data)
		}
	}

	return ""
}

// Decode decodes URL-safe base64, with or without padding. Any decoding
// error yields "".
func Decode(data string) string {
	if data == "" {
		return ""
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// Encode is the inverse of Decode and is used when building part trees from
// sources that carry raw bytes.
func Encode(raw []byte) string {
	return base64.URLEncoding.EncodeToString(raw)
}
