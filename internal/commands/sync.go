package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/jira"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// SyncCommand returns the CLI command for syncing worklogs from Jira
func SyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch the month's worklogs from Jira into the local cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "month",
				Aliases: []string{"m"},
				Usage:   "Month to sync, YYYY-MM (defaults to the current month)",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Drop the cache first so the month is fetched again",
			},
		},
		Action: syncAction,
	}
}

func syncAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	month, err := resolveMonth(c, application)
	if err != nil {
		return err
	}

	if c.Bool("force") {
		application.Worklog.ClearAll()
	}

	if application.Worklog.MonthLoaded(month) {
		utils.PrintSuccess(fmt.Sprintf("%s is already synced (use --force to refetch)", month.String()))
		return nil
	}

	utils.PrintInfo(fmt.Sprintf("Syncing worklogs for %s...", month.String()))
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := application.Worklog.EnsureMonthLoaded(ctx, month); err != nil {
		if errors.Is(err, jira.ErrMissingCredentials) {
			utils.PrintError("No Jira credentials configured. Run: worklogcal config credentials")
			return err
		}
		utils.PrintError(fmt.Sprintf("Sync failed: %s", err))
		return err
	}

	var total float64
	var daysLogged int
	for _, day := range calendar.Grid(month) {
		if !day.InCurrentMonth {
			continue
		}
		if hours := application.Worklog.GetHours(day.Date); hours > 0 {
			total += hours
			daysLogged++
		}
	}

	utils.PrintSuccess(fmt.Sprintf("Synced %s in %s", month.String(), time.Since(start).Round(time.Millisecond)))
	utils.PrintKeyValue("Days with worklogs", fmt.Sprintf("%d", daysLogged))
	utils.PrintKeyValue("Total hours", utils.FormatHours(total))

	return nil
}
