package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/ceremony"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// CeremonyCommand returns the CLI command for team ceremony management
func CeremonyCommand() *cli.Command {
	return &cli.Command{
		Name:  "ceremony",
		Usage: "Manage team ceremony schedules and duration presets",
		Subcommands: []*cli.Command{
			{
				Name:  "team",
				Usage: "Manage teams",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Register a new team",
						ArgsUsage: "<key> <name>",
						Action:    addTeamAction,
					},
				},
			},
			{
				Name:        "schedule",
				Usage:       "Set a team's ceremony entries for one weekday",
				Description: "Entries are issue=hours pairs, e.g. ADM-17=0.25 ADM-16=1",
				ArgsUsage:   "<issue=hours> [<issue=hours>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "team",
						Usage:    "Team key",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "week",
						Usage:    "Sprint week (1 or 2)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "day",
						Usage:    "Weekday (monday..friday)",
						Required: true,
					},
				},
				Action: setScheduleAction,
			},
			{
				Name:      "tasks",
				Usage:     "Show the ceremony tasks for a date",
				ArgsUsage: "[YYYY-MM-DD]",
				Action:    tasksAction,
			},
			{
				Name:  "durations",
				Usage: "Manage ceremony duration presets",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the presets",
						Action: listDurationsAction,
					},
					{
						Name:      "set",
						Usage:     "Create or update a preset",
						ArgsUsage: "<label> <hours> <issue-key>",
						Action:    setDurationAction,
					},
					{
						Name:      "remove",
						Usage:     "Remove a preset",
						ArgsUsage: "<label>",
						Action:    removeDurationAction,
					},
				},
			},
			{
				Name:        "apply",
				Usage:       "Add the selected team's ceremony hours to a date",
				Description: "Looks up the team schedule for the date and adds each entry's hours to the local cache",
				ArgsUsage:   "[YYYY-MM-DD]",
				Action:      applyCeremoniesAction,
			},
		},
	}
}

func addTeamAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: worklogcal ceremony team add <key> <name>")
	}

	key := c.Args().Get(0)
	name := strings.Join(c.Args().Slice()[1:], " ")

	team, err := application.Ceremony.CreateTeam(context.Background(), key, name)
	if err != nil {
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Team %q created (%s)", team.Key, team.Name))
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
}

func setScheduleAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	week := c.Int("week")
	if week != 1 && week != 2 {
		return fmt.Errorf("week must be 1 or 2")
	}

	weekday, ok := weekdayNames[strings.ToLower(c.String("day"))]
	if !ok {
		return fmt.Errorf("invalid weekday %q (expected monday..friday)", c.String("day"))
	}

	var tasks []ceremony.Task
	for _, arg := range c.Args().Slice() {
		issue, hoursStr, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("invalid entry %q, expected issue=hours", arg)
		}
		hours, err := strconv.ParseFloat(hoursStr, 64)
		if err != nil || hours <= 0 {
			return fmt.Errorf("invalid hours in %q", arg)
		}
		tasks = append(tasks, ceremony.Task{IssueKey: issue, Hours: hours})
	}

	err = application.Ceremony.SetSchedule(context.Background(),
		c.String("team"), ceremony.SprintWeek(week), weekday, tasks)
	if err != nil {
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Schedule set: %s week %d %s (%d entries)",
		c.String("team"), week, strings.ToLower(c.String("day")), len(tasks)))
	return nil
}

func tasksAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	date, err := argDate(c, application)
	if err != nil {
		return err
	}

	teamKey := application.Config.Team.Selected
	if teamKey == "" {
		utils.PrintInfo("No team selected. Run: worklogcal config team --select <key>")
		return nil
	}

	tasks, err := application.Ceremony.TasksForDate(context.Background(), teamKey, date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		utils.PrintInfo(fmt.Sprintf("No ceremonies for %s", date.Format("2006-01-02")))
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.IssueKey, utils.FormatHours(t.Hours)})
	}
	utils.PrintHeading(fmt.Sprintf("Ceremonies for %s (%s)", date.Format("Monday, 2 January"), teamKey))
	utils.PrintTable([]string{"Issue", "Hours"}, rows)

	return nil
}

func listDurationsAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	durations, err := application.Ceremony.Durations(context.Background())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(durations))
	for _, d := range durations {
		rows = append(rows, []string{d.Label, utils.FormatHours(d.Hours), d.IssueKey})
	}
	utils.PrintTable([]string{"Label", "Hours", "Issue"}, rows)

	return nil
}

func setDurationAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	if c.Args().Len() != 3 {
		return fmt.Errorf("usage: worklogcal ceremony durations set <label> <hours> <issue-key>")
	}

	hours, err := utils.ParseHours(c.Args().Get(1))
	if err != nil {
		return err
	}

	err = application.Ceremony.SetDuration(context.Background(),
		c.Args().Get(0), hours, c.Args().Get(2))
	if err != nil {
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Preset %q set to %s", c.Args().Get(0), utils.FormatHours(hours)))
	return nil
}

func removeDurationAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: worklogcal ceremony durations remove <label>")
	}

	if err := application.Ceremony.RemoveDuration(context.Background(), c.Args().First()); err != nil {
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Preset %q removed", c.Args().First()))
	return nil
}

func applyCeremoniesAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	date, err := argDate(c, application)
	if err != nil {
		return err
	}

	teamKey := application.Config.Team.Selected
	if teamKey == "" {
		return fmt.Errorf("no team selected, run: worklogcal config team --select <key>")
	}

	tasks, err := application.Ceremony.TasksForDate(context.Background(), teamKey, date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		utils.PrintInfo(fmt.Sprintf("No ceremonies to apply on %s", date.Format("2006-01-02")))
		return nil
	}

	prev := application.Worklog.GetHours(date)
	var added float64
	for _, t := range tasks {
		application.Worklog.AddHours(date, t.Hours)
		added += t.Hours
	}
	application.Highlighter.MarkUpdated(date, prev, application.Worklog.GetHours(date))

	utils.PrintSuccess(fmt.Sprintf("Added %s of ceremonies to %s (%d entries)",
		utils.FormatHours(added), date.Format("2006-01-02"), len(tasks)))
	return nil
}

// argDate parses the first positional argument as a date in the calendar
// timezone, defaulting to today.
func argDate(c *cli.Context, application *app.App) (time.Time, error) {
	loc := application.Worklog.Location()
	if c.Args().Len() == 0 {
		return time.Now().In(loc), nil
	}

	date, err := time.ParseInLocation("2006-01-02", c.Args().First(), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.Args().First())
	}
	return date, nil
}
