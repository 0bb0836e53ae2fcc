package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/commands"
	calendarcmd "github.com/nitchakarn/worklogcal/internal/commands/calendar"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "worklogcal",
		Usage: "Jira worklog calendar for the terminal",
		Description: "Worklogcal shows your Jira worklogs on a month calendar and keeps a local\n" +
			"per-day hour cache in sync with the tracker.\n\n" +
			"When run without subcommands, worklogcal opens the interactive calendar\n" +
			"(default action). Additional subcommands print monthly summaries and manage\n" +
			"credentials, teams and ceremony schedules.",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			calendarcmd.Command(),
			commands.MonthCommand(),
			commands.DayCommand(),
			commands.SyncCommand(),
			commands.ConfigCommand(),
			commands.CeremonyCommand(),
			commands.ICSCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to open the interactive calendar
			return calendarcmd.Command().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
