package service

import (
	"fmt"
	"strings"

	"mailbrief/internal/model"
)

const (
	summarySystemPrompt = "You are a professional summariser and classifier for emails."
	summaryMaxTokens    = 600
	summaryTemperature  = 0.4

	tagTemperature = 0.3
	tagFallback    = "Miscellaneous"
)

// summaryPrompt asks for the "Summary:" / "Tags:" layout that
// parser.ParseSummary reads back.
func summaryPrompt(subject, body string) string {
	return fmt.Sprintf(`You are a professional email assistant.

Your task is to:
1. Summarise the following email in 2-3 concise bullet points.
2. Provide 1-3 relevant classification tags (like "Meeting", "Invoice", "Urgent", "FYI", etc.).

Respond in this format exactly:
Summary:
• ...
• ...
Tags:
[ "Tag1", "Tag2" ]

Email Subject: %s

Email Body:
%s
`, subject, body)
}

func tagPrompt(subject, body string, vocabulary model.TagVocabulary) string {
	quoted := make([]string, len(vocabulary))
	for i, tag := range vocabulary {
		quoted[i] = fmt.Sprintf("%q", tag)
	}

	return fmt.Sprintf(`You are an intelligent email classifier. Based on the following subject and body, return 1 to 3 suitable tags from this list:
[%s]

Subject: %s
Body: %s

Return only the tags as a bracketed list of double-quoted strings, for example ["urgent", "meeting"]. If no tag fits, return ["%s"].
`, strings.Join(quoted, ", "), subject, body, tagFallback)
}
