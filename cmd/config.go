package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gotimesheet configuration file values.",
	Long: `Create, edit, display, and delete the gotimesheet configuration file.

The configuration stores application-wide values:
- storage.db_path
- calendar.holidays (per year) and calendar.holiday_file
- timeline.gap_threshold_minutes
- report.top_n, report.overdue_after_days, report.trend_days
- notify.desktop
- server.port`,
	Example: `
  # Create default config in $HOME/.gotimesheet.yaml
  gotimesheet config create

  # Show active config and source file
  gotimesheet config show

  # Open active config in editor (creates example if missing)
  gotimesheet config edit

  # Delete active config file
  gotimesheet config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
