// Package calendar implements the interactive month view: a grid of day
// cells with logged hours, month navigation that syncs worklogs on demand,
// and inline hour edits with transient highlight feedback.
package calendar

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/loggy"
)

// Command returns the interactive calendar command
func Command() *cli.Command {
	return &cli.Command{
		Name:    "calendar",
		Aliases: []string{"cal"},
		Usage:   "Browse worklogs in an interactive month view",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "month",
				Aliases: []string{"m"},
				Usage:   "Month to open, YYYY-MM (defaults to the current month)",
			},
		},
		Action: calendarAction,
	}
}

func calendarAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	loc := application.Worklog.Location()
	month := calendar.MonthOf(time.Now().In(loc))
	if v := c.String("month"); v != "" {
		t, err := time.ParseInLocation("2006-01", v, loc)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", v)
		}
		month = calendar.MonthOf(t)
	}

	model := NewModel(application, month)
	p := tea.NewProgram(model, tea.WithAltScreen())

	loggy.Debug("Starting calendar TUI", "month", month.Key())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("calendar UI error: %w", err)
	}

	return nil
}
