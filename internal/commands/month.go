package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/jira"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// MonthCommand returns the CLI command for printing a month's worklog grid
func MonthCommand() *cli.Command {
	return &cli.Command{
		Name:  "month",
		Usage: "Print the worklog calendar for a month",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "month",
				Aliases: []string{"m"},
				Usage:   "Month to print, YYYY-MM (defaults to the current month)",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Skip the Jira sync and print cached data only",
			},
		},
		Action: monthAction,
	}
}

// DayCommand returns the CLI command for listing one day's worklog entries
func DayCommand() *cli.Command {
	return &cli.Command{
		Name:      "day",
		Usage:     "List the worklog entries for a single day",
		ArgsUsage: "[YYYY-MM-DD]",
		Action:    dayAction,
	}
}

func resolveMonth(c *cli.Context, application *app.App) (calendar.Month, error) {
	loc := application.Worklog.Location()
	if v := c.String("month"); v != "" {
		t, err := time.ParseInLocation("2006-01", v, loc)
		if err != nil {
			return calendar.Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", v)
		}
		return calendar.MonthOf(t), nil
	}
	return calendar.MonthOf(time.Now().In(loc)), nil
}

func monthAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	month, err := resolveMonth(c, application)
	if err != nil {
		return err
	}

	if !c.Bool("offline") {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := application.Worklog.EnsureMonthLoaded(ctx, month); err != nil {
			if errors.Is(err, jira.ErrMissingCredentials) {
				utils.PrintWarning("No Jira credentials configured; showing local data only. Run: worklogcal config credentials")
			} else {
				utils.PrintWarning(fmt.Sprintf("Sync failed, showing cached data: %s", err))
			}
		}
	}

	renderMonthTable(application, month)
	return nil
}

// renderMonthTable prints the fixed-week grid: one table row per week, each
// cell holding the day number and the hours logged that day.
func renderMonthTable(application *app.App, month calendar.Month) {
	t := utils.CreateTable(utils.TableOptions{Title: month.String()})
	t.AppendHeader(table.Row{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"})

	var total float64
	for _, week := range calendar.Weeks(month) {
		row := table.Row{}
		for _, day := range week {
			if !day.InCurrentMonth {
				row = append(row, "")
				continue
			}

			hours := application.Worklog.GetHours(day.Date)
			total += hours

			cell := fmt.Sprintf("%2d", day.Date.Day())
			if text := utils.ColorHours(hours); text != "" {
				if application.Highlighter.IsRecentlyUpdated(day.Date) {
					text = utils.FlashText(text)
				}
				cell = fmt.Sprintf("%2d %s", day.Date.Day(), text)
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "Total", utils.FormatHours(total)})
	t.Render()

	fmt.Println()
	utils.PrintKeyValue("Legend", fmt.Sprintf("%s full day (8h+)  %s partial day",
		utils.ColorHours(8), utils.ColorHours(4)))
}

func dayAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	loc := application.Worklog.Location()
	date := time.Now().In(loc)
	if c.Args().Len() > 0 {
		date, err = time.ParseInLocation("2006-01-02", c.Args().First(), loc)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.Args().First())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	month := calendar.MonthOf(date)
	if err := application.Worklog.EnsureMonthLoaded(ctx, month); err != nil {
		if errors.Is(err, jira.ErrMissingCredentials) {
			utils.PrintWarning("No Jira credentials configured; showing local data only")
		} else {
			utils.PrintWarning(fmt.Sprintf("Sync failed, showing cached data: %s", err))
		}
	}

	entries := application.Worklog.GetLogs(date)
	if len(entries) == 0 {
		utils.PrintInfo(fmt.Sprintf("No worklogs on %s", date.Format("2006-01-02")))
		return nil
	}

	utils.PrintHeading(fmt.Sprintf("Worklogs for %s", date.Format("Monday, 2 January 2006")))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.IssueKey,
			e.IssueType,
			e.Summary,
			utils.FormatHours(float64(e.TimeSpentSeconds) / 3600),
		})
	}
	utils.PrintTable([]string{"Issue", "Type", "Summary", "Hours"}, rows)
	utils.PrintKeyValue("Total", utils.FormatHours(application.Worklog.GetHours(date)))

	return nil
}
