package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.EqualValues(t, 60, onDisk["poll_interval"])
	assert.Len(t, onDisk["tag_vocabulary"], 13)

	// Second load reads the file back.
	again, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, again)
}

func TestLoadSettingsFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"poll_interval": 120, "trigger_tags": ["urgent"], "include_archived": true}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 120, settings.PollInterval)
	assert.Equal(t, []string{"urgent"}, settings.TriggerTags)
	assert.True(t, settings.IncludeArchived)
	assert.Equal(t, DefaultSettings().SpamPatterns, settings.SpamPatterns)
	assert.Equal(t, DefaultSettings().TagVocabulary, settings.TagVocabulary)
	assert.Equal(t, 10, settings.MaxResults)
}

func TestLoadSettingsRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"spam_patterns": ["(unclosed"]}`), 0o644))

	_, err := LoadSettings(path)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero poll interval", func(s *Settings) { s.PollInterval = 0 }},
		{"negative rate limit", func(s *Settings) { s.RateLimitHours = -1 }},
		{"too many results", func(s *Settings) { s.MaxResults = 501 }},
		{"empty vocabulary", func(s *Settings) { s.TagVocabulary = nil }},
		{"bad regex", func(s *Settings) { s.SpamPatterns = []string{"[a-"} }},
	}

	assert.NoError(t, DefaultSettings().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestSettingsStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewSettingsStore(path, DefaultSettings())

	bad := DefaultSettings()
	bad.PollInterval = -5
	assert.ErrorIs(t, store.Update(bad), ErrInvalidSettings)
	assert.Equal(t, 60, store.Get().PollInterval)

	next := DefaultSettings()
	next.TagVocabulary = []string{"alpha", "beta"}
	require.NoError(t, store.Update(next))
	assert.Equal(t, []string{"alpha", "beta"}, []string(store.Vocabulary()))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, []string(loaded.TagVocabulary))
}
