package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotimesheet/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration (file values merged over defaults) and
the resolved config file path.

This command validates the configuration before printing values, including
every holiday date and the optional holiday file.`,
	Example: `
  # Show active configuration
  gotimesheet config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		source := viper.ConfigFileUsed()
		if source == "" {
			source = "(none, defaults only)"
		}
		fmt.Println("Config file loaded from:", source)
		return printConfig(os.Stdout, *cfg)
	},
}

func printConfig(out io.Writer, cfg config.Config) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "%s: %s\n", config.KeyStorageDBPath, cfg.Storage.DBPath)
	fmt.Fprintf(out, "%s: %s\n", config.KeyCalendarHolidays, strings.Join(policy.Holidays(), ", "))
	fmt.Fprintf(out, "%s: %s\n", config.KeyCalendarHolidayFile, cfg.Calendar.HolidayFile)
	fmt.Fprintf(out, "%s: %d\n", config.KeyTimelineGapThreshold, cfg.Timeline.GapThresholdMinutes)
	fmt.Fprintf(out, "%s: %d\n", config.KeyReportTopN, cfg.Report.TopN)
	fmt.Fprintf(out, "%s: %d\n", config.KeyReportOverdueAfterDays, cfg.Report.OverdueAfterDays)
	fmt.Fprintf(out, "%s: %d\n", config.KeyReportTrendDays, cfg.Report.TrendDays)
	fmt.Fprintf(out, "%s: %t\n", config.KeyNotifyDesktop, cfg.Notify.Desktop)
	fmt.Fprintf(out, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
