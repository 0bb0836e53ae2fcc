package ceremony

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitchakarn/worklogcal/internal/loggy"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")

	repo := NewSQLRepository(db, loggy.NewNoopLogger())
	return repo, mock, func() { db.Close() }
}

func TestSQLRepositoryGetTeamByKey(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "key", "name", "created_at", "updated_at"}).
		AddRow("team_01", "platform", "Platform Team", now, now)

	mock.ExpectQuery("SELECT .+ FROM teams WHERE key = ?").
		WithArgs("platform").
		WillReturnRows(rows)

	team, err := repo.GetTeamByKey(context.Background(), "platform")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, "team_01", team.ID)
	assert.Equal(t, "Platform Team", team.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryGetTeamByKeyNotFound(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM teams WHERE key = ?").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	team, err := repo.GetTeamByKey(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, team)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryGetSchedule(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "team_id", "sprint_week", "weekday", "issue_key", "hours", "created_at", "updated_at"}).
		AddRow("cer_01", "team_01", 1, 1, "ADM-17", 0.25, now, now).
		AddRow("cer_02", "team_01", 1, 1, "ADM-16", 1.0, now, now)

	mock.ExpectQuery("SELECT .+ FROM ceremony_schedules WHERE").
		WillReturnRows(rows)

	entries, err := repo.GetSchedule(context.Background(), "team_01", Week1, time.Monday)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ADM-17", entries[0].IssueKey)
	assert.Equal(t, Week1, entries[0].SprintWeek)
	assert.Equal(t, time.Monday, entries[0].Weekday)
	assert.Equal(t, 1.0, entries[1].Hours)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositorySetSchedule(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM ceremony_schedules WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ceremony_schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO ceremony_schedules").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.SetSchedule(context.Background(), "team_01", Week2, time.Friday, []Task{
		{IssueKey: "ADM-17", Hours: 0.25},
		{IssueKey: "ADM-18", Hours: 1},
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryUpsertDurationInsert(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM ceremony_durations WHERE label = ?").
		WithArgs("Planning").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO ceremony_durations").
		WillReturnResult(sqlmock.NewResult(1, 1))

	d := &Duration{Label: "Planning", Hours: 1, IssueKey: "ADM-16"}
	require.NoError(t, repo.UpsertDuration(context.Background(), d))
	assert.NotEmpty(t, d.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryUpsertDurationUpdate(t *testing.T) {
	repo, mock, cleanup := newMockRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM ceremony_durations WHERE label = ?").
		WithArgs("Planning").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cer_01"))
	mock.ExpectExec("UPDATE ceremony_durations SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := &Duration{Label: "Planning", Hours: 2, IssueKey: "ADM-16"}
	require.NoError(t, repo.UpsertDuration(context.Background(), d))
	assert.Equal(t, "cer_01", d.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
