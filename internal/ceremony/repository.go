package ceremony

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/nitchakarn/worklogcal/internal/loggy"
	"github.com/nitchakarn/worklogcal/internal/ulid"
)

// Repository defines persistence operations for teams, ceremony schedules
// and duration presets.
type Repository interface {
	// GetTeamByKey retrieves a team by its lookup key, nil when absent
	GetTeamByKey(ctx context.Context, key string) (*Team, error)

	// ListTeams retrieves all teams ordered by name
	ListTeams(ctx context.Context) ([]Team, error)

	// CreateTeam persists a new team
	CreateTeam(ctx context.Context, team *Team) error

	// GetSchedule retrieves a team's entries for one sprint week and weekday
	GetSchedule(ctx context.Context, teamID string, week SprintWeek, weekday time.Weekday) ([]ScheduleEntry, error)

	// SetSchedule replaces a team's entries for one sprint week and weekday
	SetSchedule(ctx context.Context, teamID string, week SprintWeek, weekday time.Weekday, tasks []Task) error

	// ListDurations retrieves all duration presets ordered by label
	ListDurations(ctx context.Context) ([]Duration, error)

	// UpsertDuration creates or updates a duration preset by label
	UpsertDuration(ctx context.Context, d *Duration) error

	// DeleteDuration removes a duration preset by label
	DeleteDuration(ctx context.Context, label string) error
}

// SQLRepository implements Repository using a SQL database
type SQLRepository struct {
	db     *sql.DB
	logger *loggy.Logger
}

// NewSQLRepository creates a new SQL ceremony repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

// GetTeamByKey retrieves a team by its lookup key
func (r *SQLRepository) GetTeamByKey(ctx context.Context, key string) (*Team, error) {
	q := squirrel.Select("id", "key", "name", "created_at", "updated_at").
		From("teams").
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get team query: %w", err)
	}

	var team Team
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&team.ID, &team.Key, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("executing get team query: %w", err)
	}

	return &team, nil
}

// ListTeams retrieves all teams ordered by name
func (r *SQLRepository) ListTeams(ctx context.Context) ([]Team, error) {
	q := squirrel.Select("id", "key", "name", "created_at", "updated_at").
		From("teams").
		OrderBy("name ASC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list teams query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing list teams query: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Key, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// CreateTeam persists a new team
func (r *SQLRepository) CreateTeam(ctx context.Context, team *Team) error {
	if team.ID == "" {
		team.ID = ulid.TeamID()
	}
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	q := squirrel.Insert("teams").
		Columns("id", "key", "name", "created_at", "updated_at").
		Values(team.ID, team.Key, team.Name, team.CreatedAt, team.UpdatedAt)

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building create team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing create team query: %w", err)
	}

	return nil
}

// GetSchedule retrieves a team's entries for one sprint week and weekday
func (r *SQLRepository) GetSchedule(ctx context.Context, teamID string, week SprintWeek, weekday time.Weekday) ([]ScheduleEntry, error) {
	q := squirrel.Select("id", "team_id", "sprint_week", "weekday", "issue_key", "hours", "created_at", "updated_at").
		From("ceremony_schedules").
		Where(squirrel.Eq{
			"team_id":     teamID,
			"sprint_week": int(week),
			"weekday":     int(weekday),
		}).
		OrderBy("id ASC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get schedule query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing get schedule query: %w", err)
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		var e ScheduleEntry
		var sprintWeek, day int
		if err := rows.Scan(&e.ID, &e.TeamID, &sprintWeek, &day, &e.IssueKey, &e.Hours, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		e.SprintWeek = SprintWeek(sprintWeek)
		e.Weekday = time.Weekday(day)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule rows: %w", err)
	}

	return entries, nil
}

// SetSchedule replaces a team's entries for one sprint week and weekday
func (r *SQLRepository) SetSchedule(ctx context.Context, teamID string, week SprintWeek, weekday time.Weekday, tasks []Task) error {
	del := squirrel.Delete("ceremony_schedules").
		Where(squirrel.Eq{
			"team_id":     teamID,
			"sprint_week": int(week),
			"weekday":     int(weekday),
		})

	query, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("building clear schedule query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing clear schedule query: %w", err)
	}

	now := time.Now()
	for _, task := range tasks {
		ins := squirrel.Insert("ceremony_schedules").
			Columns("id", "team_id", "sprint_week", "weekday", "issue_key", "hours", "created_at", "updated_at").
			Values(ulid.CeremonyID(), teamID, int(week), int(weekday), task.IssueKey, task.Hours, now, now)

		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("building insert schedule query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("executing insert schedule query: %w", err)
		}
	}

	return nil
}

// ListDurations retrieves all duration presets ordered by label
func (r *SQLRepository) ListDurations(ctx context.Context) ([]Duration, error) {
	q := squirrel.Select("id", "label", "hours", "issue_key", "created_at", "updated_at").
		From("ceremony_durations").
		OrderBy("label ASC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list durations query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing list durations query: %w", err)
	}
	defer rows.Close()

	var durations []Duration
	for rows.Next() {
		var d Duration
		if err := rows.Scan(&d.ID, &d.Label, &d.Hours, &d.IssueKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning duration row: %w", err)
		}
		durations = append(durations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duration rows: %w", err)
	}

	return durations, nil
}

// UpsertDuration creates or updates a duration preset by label
func (r *SQLRepository) UpsertDuration(ctx context.Context, d *Duration) error {
	existing := squirrel.Select("id").
		From("ceremony_durations").
		Where(squirrel.Eq{"label": d.Label}).
		Limit(1)

	query, args, err := existing.ToSql()
	if err != nil {
		return fmt.Errorf("building duration lookup query: %w", err)
	}

	now := time.Now()

	var id string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if d.ID == "" {
			d.ID = ulid.CeremonyID()
		}
		d.CreatedAt = now
		d.UpdatedAt = now

		ins := squirrel.Insert("ceremony_durations").
			Columns("id", "label", "hours", "issue_key", "created_at", "updated_at").
			Values(d.ID, d.Label, d.Hours, d.IssueKey, d.CreatedAt, d.UpdatedAt)

		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("building insert duration query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("executing insert duration query: %w", err)
		}

	case err != nil:
		return fmt.Errorf("executing duration lookup query: %w", err)

	default:
		d.ID = id
		d.UpdatedAt = now

		upd := squirrel.Update("ceremony_durations").
			Set("hours", d.Hours).
			Set("issue_key", d.IssueKey).
			Set("updated_at", d.UpdatedAt).
			Where(squirrel.Eq{"id": id})

		query, args, err := upd.ToSql()
		if err != nil {
			return fmt.Errorf("building update duration query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("executing update duration query: %w", err)
		}
	}

	return nil
}

// DeleteDuration removes a duration preset by label
func (r *SQLRepository) DeleteDuration(ctx context.Context, label string) error {
	q := squirrel.Delete("ceremony_durations").
		Where(squirrel.Eq{"label": label})

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building delete duration query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing delete duration query: %w", err)
	}

	return nil
}
