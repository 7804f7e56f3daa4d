package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/storage"
	"gotimesheet/timesheet"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the user roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.store.Users(cmd.Context())
		if err != nil {
			return err
		}
		printUsers(os.Stdout, users)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the project tree with ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.store.Projects(cmd.Context())
		if err != nil {
			return err
		}
		printProjects(os.Stdout, projects)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo entries into an empty database",
	Long: `Load a small demo data set. Nothing is written when the database already
holds entries. Two of the demo entries are dated today.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		seeded, err := storage.SeedDemo(cmd.Context(), a.store, timeutil.FormatDate(time.Now()))
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Println("Database already holds entries, demo data not loaded.")
			return nil
		}
		fmt.Printf("Demo data loaded: %d entries\n", len(storage.DemoEntries("")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(seedCmd)
}

func printUsers(out io.Writer, users []timesheet.User) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, user := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", user.ID, user.Name, report.RoleLabel(user.Role))
	}
	_ = w.Flush()
}

func printProjects(out io.Writer, projects []timesheet.Project) {
	for _, project := range projects {
		fmt.Fprintf(out, "%d %s\n", project.ID, project.Name)
		for _, sub := range project.Subprojects {
			fmt.Fprintf(out, "  %d %s\n", sub.ID, sub.Name)
			for _, task := range sub.Tasks {
				fmt.Fprintf(out, "    %d %s\n", task.ID, task.Title)
				for _, subtask := range task.Subtasks {
					fmt.Fprintf(out, "      %d %s\n", subtask.ID, subtask.Title)
				}
			}
		}
	}
}
