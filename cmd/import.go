package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gotimesheet/importer"
)

var (
	importInputs     []string
	importFormat     string
	importUserID     int64
	importProjectID  int64
	importDryRun     bool
	importTMProjects string
	importShowErrors int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import entries from CSV/Excel/JSON files",
	Long: `Read source files and submit every row through the same validation as "log".

A rejected row does not stop the import. Rows that repeat an existing entry
exactly (same user, day, times, and project path) are counted as duplicates.
When --format is omitted, format is inferred from each input file extension.

Recognized columns (case-insensitive): user/userid, date, start/starttime,
end/endtime, startdatetime/enddatetime, minutes, hours, project/projectid,
subproject, task, subtask, notes/description, billable.

--tm-projects loads a task-management project export (JSON); project and
subproject names from it replace the built-in project tree.`,
	Example: `
  # Import a CSV file for the acting user's defaults
  gotimesheet import -i ./january.csv

  # Dry run an Excel export, rows without a user belong to user 4
  gotimesheet import -i ./hours.xlsx --user 4 --project 2 --dry-run

  # Load the task-management project tree
  gotimesheet import --tm-projects ./tm-projects.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(importInputs) == 0 && strings.TrimSpace(importTMProjects) == "" {
			return fmt.Errorf("nothing to import: pass --input or --tm-projects")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if path := strings.TrimSpace(importTMProjects); path != "" {
			projects, err := importer.LoadTaskManagementProjects(path)
			if err != nil {
				return err
			}
			if importDryRun {
				fmt.Printf("Task-management projects valid: %d (dry run, not saved)\n", len(projects))
			} else {
				if err := a.store.SaveTaskManagementProjects(ctx, projects); err != nil {
					return err
				}
				fmt.Printf("Task-management projects imported: %d\n", len(projects))
			}
		}

		if len(importInputs) == 0 {
			return nil
		}

		users, err := a.store.Users(ctx)
		if err != nil {
			return err
		}
		defaultUser, err := resolveUser(users, importUserID)
		if err != nil {
			return err
		}

		result, err := importer.Run(ctx, importInputs, a.service, importer.RunOptions{
			Format: importFormat,
			DryRun: importDryRun,
			MapOptions: importer.MapOptions{
				DefaultUserID:    defaultUser.ID,
				DefaultProjectID: importProjectID,
			},
		})
		if err != nil {
			return err
		}

		label := "Import completed."
		if importDryRun {
			label = "Dry run completed, nothing was written."
		}
		fmt.Printf("%s Files: %d, Rows read: %d, Rows skipped: %d, Accepted: %d, Duplicates: %d, Rejected: %d\n",
			label,
			result.FilesProcessed,
			result.RowsRead,
			result.RowsSkipped,
			result.Accepted,
			result.Duplicates,
			len(result.Rejected),
		)
		for i, rowErr := range result.Rejected {
			if i >= importShowErrors {
				fmt.Printf("... %d more rejected rows\n", len(result.Rejected)-i)
				break
			}
			fmt.Printf("  %s\n", rowErr.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel|json (optional, inferred from extension when omitted)")
	importCmd.Flags().Int64Var(&importUserID, "user", 0, "User id for rows without a user column (default: acting user)")
	importCmd.Flags().Int64Var(&importProjectID, "project", 0, "Project id for rows without a project column")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate rows without writing")
	importCmd.Flags().StringVar(&importTMProjects, "tm-projects", "", "Task-management project export (JSON)")
	importCmd.Flags().IntVar(&importShowErrors, "show-errors", 20, "Maximum rejected rows to print")
}
