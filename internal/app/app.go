// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/ceremony"
	"github.com/nitchakarn/worklogcal/internal/config"
	"github.com/nitchakarn/worklogcal/internal/database"
	"github.com/nitchakarn/worklogcal/internal/ics"
	"github.com/nitchakarn/worklogcal/internal/jira"
	"github.com/nitchakarn/worklogcal/internal/loggy"
	"github.com/nitchakarn/worklogcal/internal/worklog"
)

// App represents the application instance with its dependencies
type App struct {
	Config      *config.Config
	Settings    *config.SettingsService
	Jira        *jira.Client
	Worklog     *worklog.Service
	Highlighter *worklog.Highlighter
	Ceremony    *ceremony.Service
	Calendar    *ics.Store
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The schema is embedded, so new databases are migrated in place.
	if _, err := database.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	app, err := initServices(cfg, db)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config, db *sql.DB) (*App, error) {
	logger := loggy.GetGlobalLogger()
	ctx := context.Background()

	settingsService := config.NewSettingsService(db, cfg, logger)
	if err := settingsService.LoadJiraSettings(ctx); err != nil {
		loggy.Warn("Failed to load settings from database", "error", err)
		// Continue anyway, using env values
	}

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving calendar timezone: %w", err)
	}

	jiraClient := jira.NewClient(cfg.Jira, logger)
	worklogService := worklog.NewService(jiraClient, loc, logger)
	highlighter := worklog.NewHighlighter(cfg.Calendar.HighlightWindow, loc)
	ceremonyService := ceremony.NewService(db, logger)

	return &App{
		Config:      cfg,
		Settings:    settingsService,
		Jira:        jiraClient,
		Worklog:     worklogService,
		Highlighter: highlighter,
		Ceremony:    ceremonyService,
		Calendar:    ics.NewStore(),
	}, nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if app.Highlighter != nil {
		app.Highlighter.Stop()
	}

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
