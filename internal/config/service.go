package config

import (
	"context"
	"database/sql"

	"github.com/nitchakarn/worklogcal/internal/loggy"
)

// SettingsService provides operations for managing application settings
type SettingsService struct {
	repo   SettingsRepository
	config *Config
	logger *loggy.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *sql.DB, config *Config, logger *loggy.Logger) *SettingsService {
	repo := NewSQLSettingsRepository(db, logger)

	return &SettingsService{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// GetSetting retrieves a setting by key
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting sets a setting value
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// DeleteSetting deletes a setting
func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	return s.repo.DeleteSetting(ctx, key)
}

// GetRepository returns the underlying repository
func (s *SettingsService) GetRepository() SettingsRepository {
	return s.repo
}

// LoadJiraSettings loads persisted Jira settings from the database into the Config
func (s *SettingsService) LoadJiraSettings(ctx context.Context) error {
	return LoadJiraSettings(ctx, s.config, s.repo)
}

// SetCredentials stores the Jira basic auth pair, obfuscating the token at rest
func (s *SettingsService) SetCredentials(ctx context.Context, email, token string) error {
	s.config.Jira.Email = email
	s.config.Jira.Token = token

	if err := s.repo.SetSetting(ctx, KeyJiraEmail, email); err != nil {
		return err
	}
	return s.repo.SetSetting(ctx, KeyJiraToken, token)
}

// ClearCredentials removes the stored Jira basic auth pair
func (s *SettingsService) ClearCredentials(ctx context.Context) error {
	s.config.Jira.Email = ""
	s.config.Jira.Token = ""

	if err := s.repo.DeleteSetting(ctx, KeyJiraEmail); err != nil {
		return err
	}
	return s.repo.DeleteSetting(ctx, KeyJiraToken)
}

// SetBaseURL stores the Jira instance base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	s.config.Jira.BaseURL = url
	return s.repo.SetSetting(ctx, KeyJiraBaseURL, url)
}

// SetSelectedTeam stores the active team key used for ceremony presets
func (s *SettingsService) SetSelectedTeam(ctx context.Context, teamKey string) error {
	s.config.Team.Selected = teamKey
	return s.repo.SetSetting(ctx, KeySelectedTeam, teamKey)
}
