package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/output"
	"gotimesheet/report"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportPeriod string
	exportRef    string
	exportUserID int64
	exportGroup  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries or totals to CSV/Excel",
	Long: `Export stored time entries.

Modes:
- entries: one row per entry with user, project path, status, and billable flag
- totals: hours per --group (user, role, project, path, billable)
- daily: per-day aggregates of one user (start/end, worked hours, break hours)

Without --period every stored entry is exported. Output format can be selected
explicitly via --format or inferred from the --output extension (.csv, .xlsx).`,
	Example: `
  # All entries to CSV
  gotimesheet export --output ./entries.csv

  # This month's entries to Excel
  gotimesheet export --period monthly --output ./entries.xlsx

  # Weekly hours per project
  gotimesheet export --mode totals --group project --period weekly --output ./totals.csv

  # Daily summary of user 3
  gotimesheet export --mode daily --user 3 --output ./daily.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		entries, err := a.store.LoadEntries(ctx)
		if err != nil {
			return err
		}
		users, err := a.store.Users(ctx)
		if err != nil {
			return err
		}
		catalog, err := a.catalog(ctx)
		if err != nil {
			return err
		}

		filter := report.Filter{UserID: exportUserID}
		if strings.TrimSpace(exportPeriod) != "" {
			_, window, err := resolveWindow(exportPeriod, exportRef, time.Now())
			if err != nil {
				return err
			}
			filter.Window = &window
		}
		selected := report.FilterEntries(entries, filter)

		table, err := buildExportTable(exportMode, selected, users, catalog, exportGroup, exportUserID)
		if err != nil {
			return err
		}
		if err := writeExport(exportOutput, exportFormat, table); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Mode: %s, File: %s\n", len(table.Rows), normalizedExportMode(exportMode), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "entries", "Export mode: entries|totals|daily")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "", "Restrict to a period: daily|weekly|monthly|quarterly")
	exportCmd.Flags().StringVar(&exportRef, "ref", "", "Any day inside --period, format YYYY-MM-DD (default: today)")
	exportCmd.Flags().Int64Var(&exportUserID, "user", 0, "Restrict to one user id")
	exportCmd.Flags().StringVar(&exportGroup, "group", "project", "Grouping for totals: user|role|project|path|billable")

	_ = exportCmd.MarkFlagRequired("output")
}

func normalizedExportMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return "entries"
	}
	return mode
}

func buildExportTable(mode string, entries []timesheet.Entry, users []timesheet.User, catalog timesheet.Catalog, groupBy string, userID int64) (output.Table, error) {
	switch normalizedExportMode(mode) {
	case "entries":
		return output.EntryTable(entries, users, catalog), nil
	case "totals":
		groups, err := groupEntries(entries, groupBy, users, catalog)
		if err != nil {
			return output.Table{}, err
		}
		return output.GroupTable(groups), nil
	case "daily":
		if userID == 0 {
			user, err := resolveUser(users, 0)
			if err != nil {
				return output.Table{}, err
			}
			entries = report.FilterEntries(entries, report.Filter{UserID: user.ID})
		}
		return output.DailySummaryTable(timeline.DailySummaries(entries, catalog)), nil
	default:
		return output.Table{}, fmt.Errorf("unsupported export mode: %s (supported: entries, totals, daily)", mode)
	}
}

func writeExport(path, format string, table output.Table) error {
	if strings.TrimSpace(format) == "" {
		return output.WriteFile(path, table)
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return err
	}
	return writer.Write(path, table)
}
