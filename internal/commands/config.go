package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// ConfigCommand returns the CLI command for managing stored configuration
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage Jira credentials and team selection",
		Subcommands: []*cli.Command{
			{
				Name:        "credentials",
				Usage:       "Store the Jira connection details",
				Description: "Persists the base URL, account email and API token. The token is obfuscated at rest.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Jira base URL (e.g. https://company.atlassian.net)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Jira account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Jira API token",
						Required: true,
					},
				},
				Action: setCredentialsAction,
			},
			{
				Name:   "show",
				Usage:  "Show the active configuration",
				Action: showConfigAction,
			},
			{
				Name:        "clear",
				Usage:       "Remove stored Jira credentials",
				Description: "Deletes the persisted credentials and drops the cached worklogs",
				Action:      clearCredentialsAction,
			},
			{
				Name:  "team",
				Usage: "Select the team whose ceremonies apply",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "select",
						Usage: "Team key to select",
					},
				},
				Action: teamAction,
			},
		},
	}
}

func setCredentialsAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()
	url := strings.TrimRight(c.String("url"), "/")
	email := c.String("email")
	token := c.String("token")

	if err := application.Settings.SetBaseURL(ctx, url); err != nil {
		return fmt.Errorf("storing base URL: %w", err)
	}
	if err := application.Settings.SetCredentials(ctx, email, token); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}

	// Make the new credentials effective in this process as well.
	application.Config.Jira.BaseURL = url
	application.Config.Jira.Email = email
	application.Config.Jira.Token = token
	application.Jira.SetCredentials(email, token)
	application.Worklog.ClearAll()

	utils.PrintSuccess("Credentials stored")
	return nil
}

func showConfigAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	cfg := application.Config

	utils.PrintHeading("Jira")
	utils.PrintKeyValue("Base URL", valueOrUnset(cfg.Jira.BaseURL))
	utils.PrintKeyValue("Email", valueOrUnset(cfg.Jira.Email))
	token := "(not set)"
	if cfg.Jira.Token != "" {
		token = "********"
	}
	utils.PrintKeyValue("API token", token)

	utils.PrintDivider()
	utils.PrintHeading("Calendar")
	utils.PrintKeyValue("Timezone", cfg.Calendar.Timezone)
	utils.PrintKeyValue("Highlight window", cfg.Calendar.HighlightWindow.String())
	utils.PrintKeyValue("Selected team", valueOrUnset(cfg.Team.Selected))
	utils.PrintKeyValue("Database", cfg.Database.Path)

	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func clearCredentialsAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	if err := application.Settings.ClearCredentials(context.Background()); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}

	application.Config.Jira.Email = ""
	application.Config.Jira.Token = ""
	application.Jira.SetCredentials("", "")
	application.Worklog.ClearAll()

	utils.PrintSuccess("Credentials removed and worklog cache cleared")
	return nil
}

func teamAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()

	if key := c.String("select"); key != "" {
		teams, err := application.Ceremony.Teams(ctx)
		if err != nil {
			return fmt.Errorf("listing teams: %w", err)
		}

		known := false
		for _, t := range teams {
			if t.Key == key {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown team %q, create it first with: worklogcal ceremony team add", key)
		}

		if err := application.Settings.SetSelectedTeam(ctx, key); err != nil {
			return fmt.Errorf("storing team selection: %w", err)
		}
		application.Config.Team.Selected = key
		utils.PrintSuccess(fmt.Sprintf("Selected team %q", key))
		return nil
	}

	teams, err := application.Ceremony.Teams(ctx)
	if err != nil {
		return fmt.Errorf("listing teams: %w", err)
	}
	if len(teams) == 0 {
		utils.PrintInfo("No teams configured. Add one with: worklogcal ceremony team add")
		return nil
	}

	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		selected := ""
		if t.Key == application.Config.Team.Selected {
			selected = "✓"
		}
		rows = append(rows, []string{selected, t.Key, t.Name})
	}
	utils.PrintTable([]string{"", "Key", "Name"}, rows)

	return nil
}
