package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/calendar"
	"gotimesheet/internal/timeutil"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

var (
	dayUserID int64
	dayDate   string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show one user's day with totals, breaks, and timeline issues",
	Long: `Show one user's entries of a day ordered by start time.

The summary lists the day total, the first start and last end, breaks between
entries, and totals per project path. Overlaps and pauses longer than
timeline.gap_threshold_minutes are reported as advisory issues.`,
	Example: `
  # Today for the acting user
  gotimesheet day

  # A given day for user 4
  gotimesheet day --user 4 --date 2025-01-20
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		users, err := a.store.Users(ctx)
		if err != nil {
			return err
		}
		user, err := resolveUser(users, dayUserID)
		if err != nil {
			return err
		}
		date, err := resolveDate(dayDate, time.Now())
		if err != nil {
			return err
		}
		entries, err := a.store.LoadEntries(ctx)
		if err != nil {
			return err
		}
		catalog, err := a.catalog(ctx)
		if err != nil {
			return err
		}

		day := timeline.SortByStart(timeline.ForUserDay(entries, user.ID, date))
		printDay(os.Stdout, user, date, day, catalog, a.service.Policy(), a.cfg.Timeline.GapThresholdMinutes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)

	dayCmd.Flags().Int64Var(&dayUserID, "user", 0, "User id (default: acting user)")
	dayCmd.Flags().StringVar(&dayDate, "date", "", "Accounting day, format YYYY-MM-DD (default: today)")
}

func printDay(out io.Writer, user timesheet.User, date string, day []timesheet.Entry, catalog timesheet.Catalog, policy calendar.Policy, gapThresholdMinutes int) {
	state := "open"
	if policy.IsLocked(date) {
		state = "locked"
	}
	fmt.Fprintf(out, "%s, %s (%s)\n", user.Name, date, state)

	if len(day) == 0 {
		fmt.Fprintln(out, "No entries.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tEND\tDURATION\tPATH\tSTATUS\tBILLABLE\tNOTES")
	for _, entry := range day {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID,
			entry.StartTime,
			entry.EndTime,
			timeutil.FormatDuration(entry.DurationSeconds),
			catalog.Path(entry),
			entry.Status,
			entry.Billable,
			entry.Notes,
		)
	}
	_ = w.Flush()

	summary := timeline.DaySummary(date, day, catalog)
	fmt.Fprintf(out, "Total: %s  Span: %s-%s  Breaks: %s\n",
		timeutil.FormatDuration(summary.TotalSeconds),
		summary.Start,
		summary.End,
		timeutil.FormatDuration(summary.BreakSeconds),
	)
	for _, path := range summary.Paths {
		fmt.Fprintf(out, "  %s: %s\n", path.Label, timeutil.FormatDuration(path.TotalSeconds))
	}

	for _, issue := range timeline.FindIssues(day, gapThresholdMinutes) {
		fmt.Fprintf(out, "! %s\n", issue.Message)
	}
}
