package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/timesheet"
)

var (
	reportPeriod  string
	reportRef     string
	reportGroup   string
	reportTop     int
	reportMembers bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize hours for a daily, weekly, monthly, or quarterly period",
	Long: `Summarize stored hours for the period containing --ref (default today).

Weeks run Sunday to Saturday. Quarters are Jan-Mar, Apr-Jun, Jul-Sep, Oct-Dec.

Without --members the entries are grouped by --group and the largest groups
are listed, followed by the trailing daily trend. With --members every
non-owner gets a row with total, billable, and non-billable hours plus
submissions still waiting for review after report.overdue_after_days.`,
	Example: `
  # Top projects this week
  gotimesheet report

  # Hours per role in January 2025
  gotimesheet report --period monthly --ref 2025-01-15 --group role

  # Team overview for the current quarter
  gotimesheet report --period quarterly --members
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		period, window, err := resolveWindow(reportPeriod, reportRef, time.Now())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		entries, err := a.store.LoadEntries(ctx)
		if err != nil {
			return err
		}
		users, err := a.store.Users(ctx)
		if err != nil {
			return err
		}
		inWindow := report.FilterEntries(entries, report.Filter{Window: &window})

		fmt.Printf("%s report %s: %s across %d entries\n",
			period, window, timeutil.FormatDuration(report.Total(inWindow)), len(inWindow))

		if reportMembers {
			summaries := report.MemberSummaries(users, inWindow, time.Now(), a.cfg.Report.OverdueAfterDays)
			printMembers(os.Stdout, summaries, report.InactiveUsers(users, inWindow))
			return nil
		}

		top := reportTop
		if top <= 0 {
			top = a.cfg.Report.TopN
		}
		catalog, err := a.catalog(ctx)
		if err != nil {
			return err
		}
		groups, err := groupEntries(inWindow, reportGroup, users, catalog)
		if err != nil {
			return err
		}
		printGroups(os.Stdout, report.TopN(groups, top))
		printTrend(os.Stdout, report.DailyTrend(entries, window.End, a.cfg.Report.TrendDays))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportPeriod, "period", "weekly", "Period: daily|weekly|monthly|quarterly")
	reportCmd.Flags().StringVar(&reportRef, "ref", "", "Any day inside the period, format YYYY-MM-DD (default: today)")
	reportCmd.Flags().StringVar(&reportGroup, "group", "project", "Grouping: user|role|project|path|billable")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "Number of groups to list (default: report.top_n)")
	reportCmd.Flags().BoolVar(&reportMembers, "members", false, "List per-member summaries instead of groups")
}

func resolveWindow(periodValue, refValue string, now time.Time) (report.Period, report.Window, error) {
	period, err := report.ParsePeriod(periodValue)
	if err != nil {
		return "", report.Window{}, err
	}
	ref := now
	if strings.TrimSpace(refValue) != "" {
		ref, err = timeutil.ParseDate(strings.TrimSpace(refValue))
		if err != nil {
			return "", report.Window{}, fmt.Errorf("invalid --ref %q (expected YYYY-MM-DD)", refValue)
		}
	}
	window, err := report.WindowFor(period, ref)
	if err != nil {
		return "", report.Window{}, err
	}
	return period, window, nil
}

func groupEntries(entries []timesheet.Entry, groupBy string, users []timesheet.User, catalog timesheet.Catalog) ([]report.Group, error) {
	switch strings.ToLower(strings.TrimSpace(groupBy)) {
	case "", "project":
		return report.GroupEntries(entries, report.ByProject(catalog)), nil
	case "user":
		return report.GroupEntries(entries, report.ByUser(users)), nil
	case "role":
		return report.RoleTotals(users, entries), nil
	case "path":
		return report.GroupEntries(entries, report.ByProjectPath(catalog)), nil
	case "billable":
		return report.GroupEntries(entries, report.ByBillable), nil
	default:
		return nil, fmt.Errorf("unsupported group %q (supported: user, role, project, path, billable)", groupBy)
	}
}

func printGroups(out io.Writer, groups []report.Group) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tHOURS\tENTRIES")
	for _, group := range groups {
		fmt.Fprintf(w, "%s\t%s\t%d\n", group.Label, timeutil.FormatDuration(group.TotalSeconds), len(group.Entries))
	}
	_ = w.Flush()
}

func printTrend(out io.Writer, trend []report.DayTotal) {
	if len(trend) == 0 {
		return
	}
	fmt.Fprintln(out, "Trend:")
	for _, day := range trend {
		fmt.Fprintf(out, "  %s  %s\n", day.Date, timeutil.FormatDuration(day.TotalSeconds))
	}
}

func printMembers(out io.Writer, summaries []report.MemberSummary, inactive []timesheet.User) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tROLE\tTOTAL\tBILLABLE\tNON-BILLABLE\tENTRIES\tOVERDUE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			s.User.Name,
			report.RoleLabel(s.User.Role),
			timeutil.FormatDuration(s.TotalSeconds),
			timeutil.FormatDuration(s.BillableSeconds),
			timeutil.FormatDuration(s.NonBillableSeconds),
			s.EntryCount,
			s.OverdueSubmissions,
		)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "Active: %d of %d\n", report.ActiveCount(summaries), len(summaries))
	if len(inactive) > 0 {
		names := make([]string, 0, len(inactive))
		for _, user := range inactive {
			names = append(names, user.Name)
		}
		fmt.Fprintf(out, "Inactive: %s\n", strings.Join(names, ", "))
	}
}
