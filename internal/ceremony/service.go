package ceremony

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nitchakarn/worklogcal/internal/loggy"
)

// Service exposes ceremony schedules and duration presets to the rest of
// the application.
type Service struct {
	repo   Repository
	logger *loggy.Logger
}

// NewService creates a new ceremony service
func NewService(db *sql.DB, logger *loggy.Logger) *Service {
	return &Service{
		repo:   NewSQLRepository(db, logger),
		logger: logger,
	}
}

// NewServiceWithRepository creates a service around an existing repository.
// Used by tests.
func NewServiceWithRepository(repo Repository, logger *loggy.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// TasksForDate returns the ceremony tasks a team logs on the given date.
// Weekends have no ceremonies. The sprint week is derived from the date's
// ISO week parity, so every team is assumed to run two-week sprints aligned
// to odd ISO weeks.
func (s *Service) TasksForDate(ctx context.Context, teamKey string, date time.Time) ([]Task, error) {
	if teamKey == "" {
		return nil, nil
	}

	weekday := date.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return nil, nil
	}

	team, err := s.repo.GetTeamByKey(ctx, teamKey)
	if err != nil {
		return nil, fmt.Errorf("resolving team %q: %w", teamKey, err)
	}
	if team == nil {
		return nil, nil
	}

	entries, err := s.repo.GetSchedule(ctx, team.ID, SprintWeekFor(date), weekday)
	if err != nil {
		return nil, fmt.Errorf("loading schedule for team %q: %w", teamKey, err)
	}

	tasks := make([]Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, Task{IssueKey: e.IssueKey, Hours: e.Hours})
	}
	return tasks, nil
}

// Teams lists all configured teams.
func (s *Service) Teams(ctx context.Context) ([]Team, error) {
	return s.repo.ListTeams(ctx)
}

// CreateTeam registers a new team under the given key.
func (s *Service) CreateTeam(ctx context.Context, key, name string) (*Team, error) {
	existing, err := s.repo.GetTeamByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("team %q already exists", key)
	}

	team := &Team{Key: key, Name: name}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("Team created", "key", key, "name", name)
	return team, nil
}

// SetSchedule replaces a team's ceremony entries for one weekday of one
// sprint week.
func (s *Service) SetSchedule(ctx context.Context, teamKey string, week SprintWeek, weekday time.Weekday, tasks []Task) error {
	if weekday == time.Saturday || weekday == time.Sunday {
		return fmt.Errorf("ceremonies cannot be scheduled on weekends")
	}

	team, err := s.repo.GetTeamByKey(ctx, teamKey)
	if err != nil {
		return fmt.Errorf("resolving team %q: %w", teamKey, err)
	}
	if team == nil {
		return fmt.Errorf("unknown team %q", teamKey)
	}

	return s.repo.SetSchedule(ctx, team.ID, week, weekday, tasks)
}

// Durations returns the ceremony duration presets, seeding the defaults on
// first use.
func (s *Service) Durations(ctx context.Context) ([]Duration, error) {
	durations, err := s.repo.ListDurations(ctx)
	if err != nil {
		return nil, err
	}

	if len(durations) == 0 {
		if err := s.seedDefaults(ctx); err != nil {
			return nil, err
		}
		return s.repo.ListDurations(ctx)
	}

	return durations, nil
}

// SetDuration creates or updates a duration preset.
func (s *Service) SetDuration(ctx context.Context, label string, hours float64, issueKey string) error {
	if label == "" {
		return fmt.Errorf("duration label is required")
	}
	if hours <= 0 {
		return fmt.Errorf("duration hours must be positive")
	}

	return s.repo.UpsertDuration(ctx, &Duration{
		Label:    label,
		Hours:    hours,
		IssueKey: issueKey,
	})
}

// RemoveDuration deletes a duration preset by label.
func (s *Service) RemoveDuration(ctx context.Context, label string) error {
	return s.repo.DeleteDuration(ctx, label)
}

func (s *Service) seedDefaults(ctx context.Context) error {
	s.logger.Debug("Seeding default ceremony durations", "count", len(defaultDurations))

	for _, d := range defaultDurations {
		preset := d
		if err := s.repo.UpsertDuration(ctx, &preset); err != nil {
			return fmt.Errorf("seeding duration %q: %w", d.Label, err)
		}
	}
	return nil
}
