package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"mailbrief/internal/ai"
	"mailbrief/internal/config"
	"mailbrief/internal/gmail"
	"mailbrief/internal/handler"
	"mailbrief/internal/logger"
	"mailbrief/internal/repository"
	"mailbrief/internal/repository/file"
	"mailbrief/internal/repository/memory"
	"mailbrief/internal/repository/postgres"
	"mailbrief/internal/repository/sqlite"
	"mailbrief/internal/router"
	"mailbrief/internal/service"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			return serve(cfg, logger.New())
		},
	})
}

func serve(cfg *config.Config, appLogger *logger.Logger) error {
	// Initialize repositories (postgres when DATABASE_URL is set, in-memory otherwise)
	var userRepo repository.UserRepository
	var emailRepo repository.EmailRepository
	var db *sql.DB

	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		userRepo = postgres.NewPostgresUserRepository(db)
		emailRepo = postgres.NewPostgresEmailRepository(db)
		appLogger.Info("Using PostgreSQL repositories")
	} else {
		userRepo = memory.NewInMemoryUserRepository()
		emailRepo = memory.NewInMemoryEmailRepository()
		appLogger.Info("Using in-memory repositories")
	}

	replyLog, closer, err := openReplyLog(cfg, db, cfg.ReplyLogPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settingsStore := config.NewSettingsStore(cfg.SettingsPath, settings)

	// Initialize services
	completer := newCompletionClient(cfg, appLogger)
	authService := service.NewAuthService(userRepo, appLogger)
	summaryService := service.NewSummaryService(completer, appLogger)
	tagService := service.NewTagService(completer, settingsStore.Vocabulary, appLogger)
	analyticsService := service.NewAnalyticsService(replyLog, appLogger)
	digestService := service.NewDigestService(
		emailRepo,
		userRepo,
		gmail.NewUserSpecificGmailClient(userRepo, nil, appLogger),
		summaryService,
		appLogger,
	)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	authHandler := handler.NewAuthHandler(authService, cfg, e.Logger)
	router.SetupRoutes(e, router.Handlers{
		Auth:      authHandler,
		Digest:    handler.NewDigestHandler(digestService, settingsStore, authHandler, e.Logger),
		Summary:   handler.NewSummaryHandler(summaryService, tagService, e.Logger),
		Analytics: handler.NewAnalyticsHandler(analyticsService, replyLog, e.Logger),
		Settings:  handler.NewSettingsHandler(settingsStore, e.Logger),
	})

	appLogger.Infof("Starting server on port %s", cfg.Port)
	return e.Start(":" + cfg.Port)
}

func newCompletionClient(cfg *config.Config, appLogger *logger.Logger) service.CompletionClient {
	return ai.NewAIClient(ai.Options{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIKey,
		BaseURL:  cfg.AIBaseURL,
		Model:    cfg.AIModel,
		Timeout:  cfg.AITimeout,
	}, appLogger)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openReplyLog picks the reply log backend named by REPLY_LOG_DRIVER. db may
// be nil unless the driver is postgres.
func openReplyLog(cfg *config.Config, db *sql.DB, path string) (repository.ReplyLogRepository, io.Closer, error) {
	switch cfg.ReplyLogDriver {
	case config.ReplyLogPostgres:
		if db == nil {
			return nil, nil, fmt.Errorf("reply log driver %s needs DATABASE_URL", config.ReplyLogPostgres)
		}
		return postgres.NewPostgresReplyLogRepository(db), nopCloser{}, nil
	case config.ReplyLogSQLite:
		repo, err := sqlite.NewReplyLogRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	case config.ReplyLogFile, "":
		return file.NewReplyLogRepository(path), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported reply log driver: %s", cfg.ReplyLogDriver)
	}
}
