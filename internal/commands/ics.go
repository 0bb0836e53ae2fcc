package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// ICSCommand returns the CLI command for inspecting an iCalendar export
func ICSCommand() *cli.Command {
	return &cli.Command{
		Name:        "ics",
		Usage:       "Inspect an iCalendar export",
		Description: "Parses an .ics file into the session calendar store and lists its events with the issue keys and hours they map to. Nothing is persisted.",
		ArgsUsage:   "<file.ics>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "date",
				Usage: "Only show events occurring on this date (YYYY-MM-DD)",
			},
		},
		Action: icsInspectAction,
	}
}

func icsInspectAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: worklogcal ics <file.ics>")
	}

	content, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("reading calendar file: %w", err)
	}

	if err := application.Calendar.Set(string(content)); err != nil {
		return fmt.Errorf("parsing calendar: %w", err)
	}

	events := application.Calendar.Events()
	if dayKey := c.String("date"); dayKey != "" {
		events = application.Calendar.EventsOn(dayKey)
	}

	if len(events) == 0 {
		utils.PrintInfo("No events found")
		return nil
	}

	var rows [][]string
	for _, e := range events {
		for _, occ := range e.Occurrences {
			rows = append(rows, []string{
				occ.Date,
				e.Title,
				e.IssueKey,
				utils.FormatHours(occ.Hours),
			})
		}
	}
	utils.PrintTable([]string{"Date", "Event", "Issue", "Hours"}, rows)
	utils.PrintKeyValue("Events", fmt.Sprintf("%d", len(events)))

	return nil
}
