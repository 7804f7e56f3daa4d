package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/timesheet"
)

var (
	clearUserID int64
	clearDate   string
	notesText   string
	reviewActor int64
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry of one user on one day",
	Example: `
  # Clear the acting user's entries for a day
  gotimesheet clear --date 2025-01-21

  # Clear another user's day
  gotimesheet clear --user 4 --date 2025-01-21
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
		user, err := resolveUser(users, clearUserID)
		if err != nil {
			return err
		}
		date, err := resolveDate(clearDate, time.Now())
		if err != nil {
			return err
		}

		deleted, err := a.service.ClearDay(ctx, user.ID, date)
		if err != nil {
			return err
		}
		fmt.Printf("Entries for %s cleared (%s). Deleted: %d\n", date, user.Name, deleted)
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes <entry-id>",
	Short: "Replace the notes of one entry",
	Args:  cobra.ExactArgs(1),
	Example: `
  # Rewrite the notes of entry 7
  gotimesheet notes 7 --notes "Header and footer components"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.UpdateNotes(cmd.Context(), id, notesText); err != nil {
			return err
		}
		fmt.Printf("Notes updated for entry %d\n", id)
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <entry-id>",
	Short: "Approve a submitted entry",
	Long: `Approve a submitted entry.

Owners may review any entry. Managers may review every entry except their own.
Team members cannot review.`,
	Args: cobra.ExactArgs(1),
	Example: `
  # Approve entry 7 as the manager (user 2)
  gotimesheet approve 7 --as 2
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, args[0], timesheet.StatusApproved)
	},
}

var requestChangesCmd = &cobra.Command{
	Use:   "request-changes <entry-id>",
	Short: "Send a submitted entry back for changes",
	Args:  cobra.ExactArgs(1),
	Example: `
  # Ask for changes on entry 7 as the owner (user 1)
  gotimesheet request-changes 7 --as 1
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, args[0], timesheet.StatusRequestedChanges)
	},
}

func runReview(cmd *cobra.Command, rawID string, to timesheet.Status) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.service.SetStatus(cmd.Context(), id, to, reviewActor)
	if err != nil {
		return fmt.Errorf("entry %d: %w", id, err)
	}
	fmt.Printf("Entry %d on %s is now %s\n", entry.ID, entry.Date, entry.Status)
	return nil
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(requestChangesCmd)

	clearCmd.Flags().Int64Var(&clearUserID, "user", 0, "User id (default: acting user)")
	clearCmd.Flags().StringVar(&clearDate, "date", "", "Accounting day, format YYYY-MM-DD (default: today)")

	notesCmd.Flags().StringVar(&notesText, "notes", "", "New notes text")
	_ = notesCmd.MarkFlagRequired("notes")

	for _, command := range []*cobra.Command{approveCmd, requestChangesCmd} {
		command.Flags().Int64Var(&reviewActor, "as", 0, "Id of the reviewing user")
		_ = command.MarkFlagRequired("as")
	}
}
