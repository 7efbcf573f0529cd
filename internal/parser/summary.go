// Package parser validates free-form completion text into structured
// summaries and tag lists without ever evaluating it.
package parser

import (
	"strings"
)

const (
	summaryLabel = "Summary:"
	tagsMarker   = "Tags:"
)

// Response is the outcome of parsing a summarisation completion. It is
// either Parsed or Unparseable.
type Response interface {
	isResponse()
}

// Parsed is a completion that had both a summary and a valid tag list.
type Parsed struct {
	Summary string
	Tags    []string
}

// Unparseable is a completion whose tag section was missing or malformed.
// Summary holds whatever summary text could still be recovered.
type Unparseable struct {
	Summary string
	Reason  string
}

func (Parsed) isResponse()      {}
func (Unparseable) isResponse() {}

// ParseSummary splits completion text on the first "Tags:" marker. The text
// before it, minus a leading "Summary:" label and bullet markers, is the
// summary; the text after it must be a bracketed tag list.
func ParseSummary(text string) Response {
	before, after, found := strings.Cut(text, tagsMarker)
	summary := cleanSummary(before)

	if !found {
		return Unparseable{Summary: summary, Reason: "missing " + tagsMarker + " marker"}
	}

	tagsSection := strings.TrimSpace(after)
	if !strings.HasPrefix(tagsSection, "[") {
		return Unparseable{Summary: summary, Reason: "tag section is not a bracketed list"}
	}

	tags, err := ParseTagList(tagsSection)
	if err != nil {
		return Unparseable{Summary: summary, Reason: err.Error()}
	}

	return Parsed{Summary: summary, Tags: tags}
}

func cleanSummary(section string) string {
	section = strings.TrimSpace(section)
	section = strings.TrimSpace(strings.TrimPrefix(section, summaryLabel))

	lines := strings.Split(section, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(trimBullet(line))
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func trimBullet(line string) string {
	for _, bullet := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, bullet) {
			return line[len(bullet):]
		}
	}
	return line
}
