package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/internal/timeutil"
	"gotimesheet/submitter"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

const defaultDayStart = "09:00"

var (
	logUserID       int64
	logDate         string
	logStart        string
	logEnd          string
	logDuration     time.Duration
	logProjectID    int64
	logSubprojectID int64
	logTaskID       int64
	logSubtaskID    int64
	logNotes        string
	logBillable     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record one time entry",
	Long: `Validate and store one time entry.

The entry is rejected when no project is given, when start is not before end,
or when it overlaps another entry of the same user on the same day. Touching
entries (one ends when the next starts) are fine.

On weekends and configured holidays the day is locked: start and end are
stored as 00:00 with zero duration and notes are required.

With --duration and no --start the entry is placed at the first free slot of
the day at or after 09:00.`,
	Example: `
  # Log 09:00-12:00 for the acting user today
  gotimesheet log --start 09:00 --end 12:00 --project 1 --subproject 1 --billable

  # Log 90 minutes for user 4 at the next free slot
  gotimesheet log --user 4 --date 2025-01-21 --duration 1h30m --project 2 --notes "iOS review"

  # Notes-only entry on a holiday
  gotimesheet log --date 2025-12-25 --project 3 --notes "On call"
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
		user, err := resolveUser(users, logUserID)
		if err != nil {
			return err
		}
		date, err := resolveDate(logDate, time.Now())
		if err != nil {
			return err
		}

		start, end := logStart, logEnd
		if !a.service.Policy().IsLocked(date) {
			entries, err := a.store.LoadEntries(ctx)
			if err != nil {
				return err
			}
			start, end, err = resolveLogTimes(timeline.ForUserDay(entries, user.ID, date), logStart, logEnd, logDuration)
			if err != nil {
				return err
			}
		}

		billable := timesheet.NonBilled
		if logBillable {
			billable = timesheet.Billed
		}

		id, err := a.service.Submit(ctx, timesheet.Entry{
			UserID:       user.ID,
			Date:         date,
			StartTime:    start,
			EndTime:      end,
			ProjectID:    logProjectID,
			SubprojectID: logSubprojectID,
			TaskID:       logTaskID,
			SubtaskID:    logSubtaskID,
			Notes:        logNotes,
			Billable:     billable,
		})
		if err != nil {
			return err
		}

		stored, _, err := a.store.GetEntry(ctx, id)
		if err != nil {
			return err
		}
		catalog, err := a.catalog(ctx)
		if err != nil {
			return err
		}
		if warning := catalogWarning(catalog, stored); warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), warning)
		}
		if stored.DurationSeconds == 0 {
			fmt.Printf("Notes saved for %s (%s). Entry ID: %d\n", stored.Date, user.Name, id)
			return nil
		}
		fmt.Printf("Time entry added: %s on %s (%s-%s) for %s. Entry ID: %d\n",
			timeutil.FormatDuration(stored.DurationSeconds), stored.Date, stored.StartTime, stored.EndTime, user.Name, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().Int64Var(&logUserID, "user", 0, "User id (default: acting user)")
	logCmd.Flags().StringVar(&logDate, "date", "", "Accounting day, format YYYY-MM-DD (default: today)")
	logCmd.Flags().StringVar(&logStart, "start", "", "Start time HH:MM")
	logCmd.Flags().StringVar(&logEnd, "end", "", "End time HH:MM")
	logCmd.Flags().DurationVar(&logDuration, "duration", 0, "Length of the entry instead of --end, e.g. 1h30m")
	logCmd.Flags().Int64Var(&logProjectID, "project", 0, "Project id")
	logCmd.Flags().Int64Var(&logSubprojectID, "subproject", 0, "Subproject id")
	logCmd.Flags().Int64Var(&logTaskID, "task", 0, "Task id")
	logCmd.Flags().Int64Var(&logSubtaskID, "subtask", 0, "Subtask id")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "Free-text notes (required on locked days)")
	logCmd.Flags().BoolVar(&logBillable, "billable", false, "Mark the entry billable")

	logCmd.MarkFlagsMutuallyExclusive("end", "duration")
}

// resolveLogTimes turns the start/end/duration flags into a clock range.
// Without a duration the values pass through unchanged for validation.
func resolveLogTimes(dayEntries []timesheet.Entry, start, end string, duration time.Duration) (string, string, error) {
	if duration == 0 {
		return start, end, nil
	}
	if strings.TrimSpace(end) != "" {
		return "", "", fmt.Errorf("use either --end or --duration")
	}

	seconds := int(duration.Truncate(time.Minute).Seconds())
	if seconds <= 0 {
		return "", "", fmt.Errorf("duration must be at least one minute")
	}

	start = strings.TrimSpace(start)
	if start == "" {
		free, ok := timeline.NextFreeStart(dayEntries, defaultDayStart, seconds)
		if !ok {
			return "", "", fmt.Errorf("no free slot of %s left on this day", timeutil.FormatDuration(seconds))
		}
		start = free
	} else if !timeutil.ValidClock(start) {
		return "", "", submitter.ErrInvalidTimeRange
	}

	endSeconds := timeutil.ToSeconds(start) + seconds
	if endSeconds >= 24*60*60 {
		return "", "", fmt.Errorf("%w: entry would end after midnight", submitter.ErrInvalidTimeRange)
	}
	return start, timeutil.SecondsToHHMM(endSeconds), nil
}


// catalogWarning names the part of the entry's project path that the
// imported project tree does not know. Entries are stored either way.
func catalogWarning(catalog timesheet.Catalog, entry timesheet.Entry) string {
	sel, err := entry.Selection()
	if err != nil || catalog.Contains(sel) {
		return ""
	}
	return fmt.Sprintf("warning: %s %s is not in the project catalog", sel.Level(), selectionPath(sel))
}

func selectionPath(sel timesheet.Selection) string {
	ids := []int64{sel.ProjectID(), sel.SubprojectID(), sel.TaskID(), sel.SubtaskID()}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			break
		}
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, "/")
}
