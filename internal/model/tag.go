package model

// TagVocabulary is the closed, ordered set of labels offered to the tag
// classifier.
type TagVocabulary []string

func DefaultTagVocabulary() TagVocabulary {
	return TagVocabulary{
		"urgent",
		"meeting",
		"follow-up",
		"request",
		"auto-reply",
		"thank you",
		"complaint",
		"feedback",
		"newsletter",
		"social",
		"promotion",
		"invoice",
		"personal",
	}
}
