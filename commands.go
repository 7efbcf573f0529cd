package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mailbrief/internal/config"
	"mailbrief/internal/extract"
	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/service"
)

func init() {
	summarizeCmd := &cobra.Command{
		Use:   "summarize FILE.eml",
		Short: "Summarise and tag one RFC 822 message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCompletionConfig()
			if err != nil {
				return err
			}
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}

			cliLogger := logger.NewWithWriter(os.Stderr)
			summaries := service.NewSummaryService(newCompletionClient(cfg, cliLogger), cliLogger)
			return writeJSON(cmd.OutOrStdout(), summaries.Summarize(cmd.Context(), msg.Subject, msg.Body))
		},
	}
	rootCmd.AddCommand(summarizeCmd)

	var maxTags int
	tagsCmd := &cobra.Command{
		Use:   "tags FILE.eml",
		Short: "Classify one RFC 822 message against the tag vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCompletionConfig()
			if err != nil {
				return err
			}
			settings, err := config.LoadSettings(cfg.SettingsPath)
			if err != nil {
				return err
			}
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}

			cliLogger := logger.NewWithWriter(os.Stderr)
			vocabulary := func() model.TagVocabulary { return settings.TagVocabulary }
			tagger := service.NewTagService(newCompletionClient(cfg, cliLogger), vocabulary, cliLogger)

			tags, err := tagger.GenerateTags(cmd.Context(), msg.Subject, msg.Body, maxTags)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string][]string{"tags": tags})
		},
	}
	tagsCmd.Flags().IntVarP(&maxTags, "max", "m", service.DefaultMaxTags, "Maximum number of tags")
	rootCmd.AddCommand(tagsCmd)

	var logPath string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Report totals, per-tag and per-day counts from the reply log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if logPath != "" {
				cfg.ReplyLogDriver = config.ReplyLogFile
				cfg.ReplyLogPath = logPath
			}
			if err := cfg.ValidateReplyLog(); err != nil {
				return err
			}

			var db *sql.DB
			if cfg.ReplyLogDriver == config.ReplyLogPostgres {
				db, err = sql.Open("postgres", cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
			}

			replyLog, closer, err := openReplyLog(cfg, db, cfg.ReplyLogPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			analytics := service.NewAnalyticsService(replyLog, logger.NewWithWriter(os.Stderr))
			stats, err := analytics.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				*model.Stats
				TopTags []model.TagCount `json:"top_tags"`
				Days    []model.DayCount `json:"days"`
			}{stats, stats.TopTags(), stats.Days()})
		},
	}
	statsCmd.Flags().StringVarP(&logPath, "log", "l", "", "Read this JSON reply log file instead of the configured backend")
	rootCmd.AddCommand(statsCmd)
}

func loadCompletionConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateCompletion(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readMessage(path string) (*model.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	msg, _, err := extract.ReadRFC822(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return msg, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
