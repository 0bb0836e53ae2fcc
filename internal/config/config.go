package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	Jira      JiraConfig
	Calendar  CalendarConfig
	Team      TeamConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	configDir string // Internal: Directory where config was loaded from
}

// JiraConfig holds connection settings for the Jira Cloud REST API
type JiraConfig struct {
	// Authentication and connection
	BaseURL string // Jira instance base URL, no trailing slash
	Email   string // Account email for basic auth
	Token   string // API token for basic auth

	// Request settings
	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	// Connection pooling
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Paging
	PageSize         int // Worklog page size per request
	SearchMaxResults int // Max issues returned by a worklog search

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// CalendarConfig holds grid and highlight behaviour settings
type CalendarConfig struct {
	Timezone        string        // IANA zone name, or "Local"
	HighlightWindow time.Duration // How long a post-edit highlight stays visible
}

// TeamConfig holds the sprint ceremony defaults
type TeamConfig struct {
	Selected string // Currently selected team key
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	CacheSize       int           // Cache size in KiB
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		Jira:     JiraConfig{},
		Calendar: CalendarConfig{},
		Team:     TeamConfig{},
		Database: DatabaseConfig{},
		Logging:  LoggingConfig{},
	}
}

// HasCredentials reports whether both halves of the Jira basic auth pair are set
func (c JiraConfig) HasCredentials() bool {
	return c.Email != "" && c.Token != ""
}

// Location resolves the configured timezone. "Local" or empty means time.Local.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateJira(); err != nil {
		return fmt.Errorf("jira config: %w", err)
	}

	if err := c.validateCalendar(); err != nil {
		return fmt.Errorf("calendar config: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateJira() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if strings.HasSuffix(c.Jira.BaseURL, "/") {
		c.Jira.BaseURL = strings.TrimRight(c.Jira.BaseURL, "/")
	}

	if c.Jira.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.Jira.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if c.Jira.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}

	if c.Jira.SearchMaxResults <= 0 {
		return fmt.Errorf("search_max_results must be positive")
	}

	return nil
}

func (c *Config) validateCalendar() error {
	if c.Calendar.HighlightWindow <= 0 {
		return fmt.Errorf("highlight window must be positive")
	}

	if _, err := c.Calendar.Location(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	// Create the directory if it doesn't exist
	dir := filepath.Dir(c.Database.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}

	if c.Database.ConnMaxLife <= 0 {
		return fmt.Errorf("connection max life must be positive")
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
