package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".worklogcal")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Default database and log paths live in the config directory
	defaultDBPath := filepath.Join(configDir, "worklogcal.db")
	defaultLogPath := filepath.Join(configDir, "worklogcal.log")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first, then current directory
		if err := godotenv.Load(configFilePath); err != nil {
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	cfg.Jira = JiraConfig{
		BaseURL:             getEnvString("WORKLOGCAL_JIRA_BASE_URL", "https://example.atlassian.net"),
		Email:               getEnvString("WORKLOGCAL_JIRA_EMAIL", ""),
		Token:               getEnvString("WORKLOGCAL_JIRA_TOKEN", ""),
		Timeout:             getEnvDuration("WORKLOGCAL_JIRA_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("WORKLOGCAL_JIRA_MAX_RETRIES", 3),
		MaxIdleConns:        getEnvInt("WORKLOGCAL_JIRA_MAX_IDLE_CONNS", 100),
		MaxIdleConnsPerHost: getEnvInt("WORKLOGCAL_JIRA_MAX_IDLE_CONNS_PER_HOST", 100),
		IdleConnTimeout:     getEnvDuration("WORKLOGCAL_JIRA_IDLE_CONN_TIMEOUT", 90*time.Second),
		PageSize:            getEnvInt("WORKLOGCAL_JIRA_PAGE_SIZE", 1000),
		SearchMaxResults:    getEnvInt("WORKLOGCAL_JIRA_SEARCH_MAX_RESULTS", 5000),
		RequestsPerMinute:   getEnvInt("WORKLOGCAL_JIRA_REQUESTS_PER_MINUTE", 300),
		BurstLimit:          getEnvInt("WORKLOGCAL_JIRA_BURST_LIMIT", 20),
	}

	cfg.Calendar = CalendarConfig{
		Timezone:        getEnvString("WORKLOGCAL_TIMEZONE", "Local"),
		HighlightWindow: getEnvDuration("WORKLOGCAL_HIGHLIGHT_WINDOW", 700*time.Millisecond),
	}

	cfg.Team = TeamConfig{
		Selected: getEnvString("WORKLOGCAL_TEAM", ""),
	}

	cfg.Database = DatabaseConfig{
		Path:            getEnvString("WORKLOGCAL_DB_PATH", defaultDBPath),
		JournalMode:     getEnvString("WORKLOGCAL_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("WORKLOGCAL_DB_SYNCHRONOUS", "NORMAL"),
		BusyTimeout:     getEnvInt("WORKLOGCAL_DB_BUSY_TIMEOUT", 5000),
		CacheSize:       getEnvInt("WORKLOGCAL_DB_CACHE_SIZE", -64000),
		ForeignKeys:     getEnvBool("WORKLOGCAL_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("WORKLOGCAL_DB_CONN_MAX_LIFE", time.Hour),
		QueryTimeout:    getEnvDuration("WORKLOGCAL_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("WORKLOGCAL_LOG_LEVEL", "info"),
		Format:     getEnvString("WORKLOGCAL_LOG_FORMAT", "text"),
		Output:     getEnvString("WORKLOGCAL_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("WORKLOGCAL_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("WORKLOGCAL_LOG_TIME_FORMAT", time.RFC3339),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ConfigDir returns the directory configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}
