package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrUnparseable marks completion text that does not have the requested
// structure.
var ErrUnparseable = errors.New("unparseable completion response")

// ParseTagList reads a bracketed list of quoted strings such as
//
//	["Meeting", 'Invoice', “Urgent”]
//
// Strings may use double, single or typographic quotes. The list is
// re-emitted as a JSON array and decoded with encoding/json, so numbers,
// identifiers, nested lists or any other expression are rejected. Only
// whitespace may follow the closing bracket.
func ParseTagList(text string) ([]string, error) {
	normalized, err := normalizeList(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(normalized), &tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.TrimSpace(tag))
	}
	return out, nil
}

// closing quote for each accepted opening quote
var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
}

func normalizeList(s string) (string, error) {
	runes := []rune(s)
	if len(runes) == 0 || runes[0] != '[' {
		return "", errors.New("tag list must start with '['")
	}

	var b strings.Builder
	b.WriteRune('[')

	i := 1
	expectValue := true
	items := 0
	closed := false

	for i < len(runes) && !closed {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ']':
			closed = true
			i++
		case r == ',':
			if expectValue {
				return "", fmt.Errorf("unexpected ',' at offset %d", i)
			}
			expectValue = true
			i++
		default:
			closing, ok := quotePairs[r]
			if !ok {
				return "", fmt.Errorf("unexpected %q at offset %d", r, i)
			}
			if !expectValue {
				return "", fmt.Errorf("missing ',' before offset %d", i)
			}
			value, next, err := readQuoted(runes, i+1, closing)
			if err != nil {
				return "", err
			}
			if items > 0 {
				b.WriteRune(',')
			}
			encoded, _ := json.Marshal(value)
			b.Write(encoded)
			items++
			expectValue = false
			i = next
		}
	}

	if !closed {
		return "", errors.New("tag list is not closed")
	}
	if rest := strings.TrimSpace(string(runes[i:])); rest != "" {
		return "", fmt.Errorf("trailing text after tag list: %q", rest)
	}

	b.WriteRune(']')
	return b.String(), nil
}

// readQuoted reads up to the closing quote, decoding backslash escapes the
// way JSON and Go string literals do. It returns the unescaped value and the
// index after the closing quote.
func readQuoted(runes []rune, start int, closing rune) (string, int, error) {
	var b strings.Builder
	for i := start; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\':
			value, next, err := readEscape(runes, i)
			if err != nil {
				return "", 0, err
			}
			if utf16.IsSurrogate(value) && next < len(runes) && runes[next] == '\\' {
				if low, after, err := readEscape(runes, next); err == nil {
					if pair := utf16.DecodeRune(value, low); pair != utf8.RuneError {
						value, next = pair, after
					}
				}
			}
			b.WriteRune(value)
			i = next - 1
		case r == closing:
			return b.String(), i + 1, nil
		case r == '\n':
			return "", 0, errors.New("newline inside quoted tag")
		default:
			b.WriteRune(r)
		}
	}
	return "", 0, errors.New("unterminated quoted tag")
}

// readEscape decodes the escape sequence starting at the backslash at i and
// returns the rune and the index after the sequence.
func readEscape(runes []rune, i int) (rune, int, error) {
	if i+1 >= len(runes) {
		return 0, 0, errors.New("dangling escape in tag")
	}

	switch next := runes[i+1]; next {
	case '"', '\'', '/', '\\', '”', '’':
		return next, i + 2, nil
	case 'u':
		// \uXXXX may be half of a UTF-16 surrogate pair, which strconv rejects.
		if i+6 > len(runes) {
			return 0, 0, errors.New("short \\u escape in tag")
		}
		code, err := strconv.ParseUint(string(runes[i+2:i+6]), 16, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid escape %q in tag", string(runes[i:i+6]))
		}
		return rune(code), i + 6, nil
	}

	rest := string(runes[i:])
	value, _, tail, err := strconv.UnquoteChar(rest, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid escape %q in tag", string(runes[i:i+2]))
	}
	return value, len(runes) - utf8.RuneCountInString(tail), nil
}
