package service

import (
	"context"
	"fmt"

	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/parser"
)

const DefaultMaxTags = 5

type tagService struct {
	client     CompletionClient
	vocabulary func() model.TagVocabulary
	logger     *logger.Logger
}

// NewTagService builds a tag classifier. vocabulary is read on every call so
// settings changes apply without a restart.
func NewTagService(client CompletionClient, vocabulary func() model.TagVocabulary, logger *logger.Logger) TagService {
	if vocabulary == nil {
		vocabulary = model.DefaultTagVocabulary
	}
	return &tagService{
		client:     client,
		vocabulary: vocabulary,
		logger:     logger,
	}
}

// GenerateTags returns at most maxTags tags in the order the model gave
// them. Unlike Summarize it reports an unreadable response as an error
// wrapping parser.ErrUnparseable.
func (s *tagService) GenerateTags(ctx context.Context, subject, body string, maxTags int) ([]string, error) {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}

	text, err := s.client.Complete(ctx, model.CompletionRequest{
		Prompt:      tagPrompt(subject, body, s.vocabulary()),
		Temperature: tagTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tags: %w", err)
	}

	tags, err := parser.ParseTagList(text)
	if err != nil {
		s.logger.Warnf("Unparseable tag response: %q", text)
		return nil, fmt.Errorf("failed to generate tags: %w", err)
	}

	tags = nonEmpty(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	return tags, nil
}
