package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig(t *testing.T) *Config {
	t.Helper()

	cfg := New()
	cfg.Jira = JiraConfig{
		BaseURL:          "https://example.atlassian.net",
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		PageSize:         1000,
		SearchMaxResults: 5000,
	}
	cfg.Calendar = CalendarConfig{
		Timezone:        "Local",
		HighlightWindow: 700 * time.Millisecond,
	}
	cfg.Database = DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "worklogcal.db"),
		BusyTimeout:  5000,
		ConnMaxLife:  time.Hour,
		QueryTimeout: 30 * time.Second,
	}
	cfg.Logging = LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
	return cfg
}

func TestValidate(t *testing.T) {
	cfg := validTestConfig(t)
	assert.NoError(t, cfg.Validate(), "valid config should pass validation")
}

func TestValidateTrimsBaseURLSlash(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Jira.BaseURL = "https://example.atlassian.net/"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://example.atlassian.net", cfg.Jira.BaseURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.Jira.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Jira.Timeout = 0 }},
		{"zero page size", func(c *Config) { c.Jira.PageSize = 0 }},
		{"zero highlight window", func(c *Config) { c.Calendar.HighlightWindow = 0 }},
		{"unknown timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus_Mons" }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCalendarLocation(t *testing.T) {
	cfg := CalendarConfig{Timezone: "Asia/Bangkok"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", loc.String())

	cfg.Timezone = "Local"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestHasCredentials(t *testing.T) {
	cfg := JiraConfig{}
	assert.False(t, cfg.HasCredentials())

	cfg.Email = "dev@example.com"
	assert.False(t, cfg.HasCredentials(), "email alone is not enough")

	cfg.Token = "api-token"
	assert.True(t, cfg.HasCredentials())
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 30 * time.Second,
			expected:     30 * time.Second,
		},
		{
			name:         "env set to 700ms",
			envValue:     "700ms",
			defaultValue: time.Second,
			expected:     700 * time.Millisecond,
		},
		{
			name:         "env set to invalid value, return default",
			envValue:     "not-a-duration",
			defaultValue: time.Minute,
			expected:     time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvDuration(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	Set(nil)
	_, err := Get()
	assert.Error(t, err, "Get before Set should fail")

	cfg := validTestConfig(t)
	Set(cfg)
	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestObfuscateRoundTrip(t *testing.T) {
	token := "ATATT3xFfGF0-secret"

	stored, err := obfuscateToken(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, stored, "token must not be stored in the clear")
	assert.Contains(t, stored, "OBFS:")

	back, err := deobfuscateToken(stored)
	require.NoError(t, err)
	assert.Equal(t, token, back)

	// Plain values pass through untouched
	plain, err := deobfuscateToken("plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", plain)
}
