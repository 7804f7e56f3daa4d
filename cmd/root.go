/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotimesheet/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gotimesheet",
	Short: "Log, review, and report team working time.",
	Long: `
**********************************************
*              GO TIMESHEET                  *
**********************************************

This CLI records time entries against a project hierarchy in a local SQLite
database. Every entry is validated before it is stored: a project is required,
start must be before end, entries of one user never overlap on a day, and
locked days (weekends and configured holidays) only accept notes.

Entries can be reviewed by managers and owners, summarized per day, reported
per week, month, or quarter, imported from CSV/Excel/JSON, and exported to
CSV or Excel. "serve" exposes the same operations as a local JSON API.
`,
	Example: `
  # Create configuration file
  gotimesheet config create

  # Log three hours for the acting user
  gotimesheet log --date 2025-01-21 --start 09:00 --end 12:00 --project 1 --subproject 1 --notes "Header component" --billable

  # Add a note on a locked day
  gotimesheet log --date 2025-01-22 --project 1 --notes "Company holiday"

  # Review an entry as the manager
  gotimesheet approve 7 --as 2

  # Weekly totals per user
  gotimesheet report --period weekly --group user

  # Export this month's entries to Excel
  gotimesheet export --period monthly --output ./entries.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.gotimesheet.yaml, then ./.gotimesheet.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to local SQLite database (overrides storage.db_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every stored change to stderr")
	cobra.CheckErr(viper.BindPFlag(config.KeyStorageDBPath, rootCmd.PersistentFlags().Lookup("db")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gotimesheet")
	}

	viper.SetEnvPrefix("GOTIMESHEET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && verbose {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: gotimesheet config create")
	}
}
