package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/spf13/viper"

	"mailbrief/internal/model"
)

// Gmail's messages.list page size limit.
const maxResultsLimit = 500

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the user-editable options persisted next to the binary.
type Settings struct {
	PollInterval    int                 `mapstructure:"poll_interval" json:"poll_interval"`
	TriggerTags     []string            `mapstructure:"trigger_tags" json:"trigger_tags"`
	SpamPatterns    []string            `mapstructure:"spam_patterns" json:"spam_patterns"`
	RateLimitHours  float64             `mapstructure:"rate_limit_hours" json:"rate_limit_hours"`
	MaxResults      int                 `mapstructure:"max_results" json:"max_results"`
	IncludeArchived bool                `mapstructure:"include_archived" json:"include_archived"`
	TagVocabulary   model.TagVocabulary `mapstructure:"tag_vocabulary" json:"tag_vocabulary"`
}

func DefaultSettings() Settings {
	return Settings{
		PollInterval:   60,
		TriggerTags:    []string{"request", "auto-reply", "urgent", "follow-up", "meeting"},
		SpamPatterns:   []string{"mailer-daemon", "no-reply"},
		RateLimitHours: 1,
		MaxResults:     10,
		TagVocabulary:  model.DefaultTagVocabulary(),
	}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	out := s
	out.TriggerTags = append([]string(nil), s.TriggerTags...)
	out.SpamPatterns = append([]string(nil), s.SpamPatterns...)
	out.TagVocabulary = append(model.TagVocabulary(nil), s.TagVocabulary...)
	return out
}

func (s Settings) Validate() error {
	if s.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidSettings)
	}
	if s.RateLimitHours <= 0 {
		return fmt.Errorf("%w: rate_limit_hours must be positive", ErrInvalidSettings)
	}
	if s.MaxResults <= 0 || s.MaxResults > maxResultsLimit {
		return fmt.Errorf("%w: max_results must be between 1 and %d", ErrInvalidSettings, maxResultsLimit)
	}
	if len(s.TagVocabulary) == 0 {
		return fmt.Errorf("%w: tag_vocabulary must not be empty", ErrInvalidSettings)
	}
	for _, p := range s.SpamPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: spam pattern %q: %v", ErrInvalidSettings, p, err)
		}
	}
	return nil
}

// LoadSettings reads the settings file at path. When the file does not exist
// the defaults are written there and returned.
func LoadSettings(path string) (Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := SaveSettings(path, defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	// Set defaults so missing keys resolve to sensible values.
	defaults := DefaultSettings()
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("trigger_tags", defaults.TriggerTags)
	v.SetDefault("spam_patterns", defaults.SpamPatterns)
	v.SetDefault("rate_limit_hours", defaults.RateLimitHours)
	v.SetDefault("max_results", defaults.MaxResults)
	v.SetDefault("include_archived", defaults.IncludeArchived)
	v.SetDefault("tag_vocabulary", []string(defaults.TagVocabulary))

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}

	return settings, nil
}

// SaveSettings writes settings to path as JSON, creating parent directories
// if needed.
func SaveSettings(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("json")

	v.Set("poll_interval", s.PollInterval)
	v.Set("trigger_tags", s.TriggerTags)
	v.Set("spam_patterns", s.SpamPatterns)
	v.Set("rate_limit_hours", s.RateLimitHours)
	v.Set("max_results", s.MaxResults)
	v.Set("include_archived", s.IncludeArchived)
	v.Set("tag_vocabulary", []string(s.TagVocabulary))

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing settings to %s: %w", path, err)
	}

	return nil
}

// SettingsStore holds the live settings and persists every update.
type SettingsStore struct {
	path     string
	settings Settings
	mutex    sync.RWMutex
}

func NewSettingsStore(path string, initial Settings) *SettingsStore {
	return &SettingsStore{path: path, settings: initial}
}

func (s *SettingsStore) Get() Settings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.settings
}

// Update validates and saves next. The live value only changes once the
// file has been written.
func (s *SettingsStore) Update(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.path != "" {
		if err := SaveSettings(s.path, next); err != nil {
			return err
		}
	}
	s.settings = next
	return nil
}

func (s *SettingsStore) Vocabulary() model.TagVocabulary {
	return s.Get().TagVocabulary
}
