package storage

import (
	"context"
	"fmt"

	"gotimesheet/timesheet"
)

// DemoEntries returns the sample data set; today is used for the two entries
// of the current day.
func DemoEntries(today string) []timesheet.Entry {
	return []timesheet.Entry{
		{UserID: 3, Role: timesheet.RoleTeamMember, Date: today, StartTime: "09:00", EndTime: "12:00", DurationSeconds: 10800, ProjectID: 1, SubprojectID: 1, TaskID: 1, Notes: "Worked on header component design", Status: timesheet.StatusSubmitted, Billable: timesheet.Billed},
		{UserID: 3, Role: timesheet.RoleTeamMember, Date: today, StartTime: "13:00", EndTime: "17:00", DurationSeconds: 14400, ProjectID: 1, SubprojectID: 1, TaskID: 2, Notes: "Mobile responsive layouts", Status: timesheet.StatusApproved, Billable: timesheet.Billed},
		{UserID: 4, Role: timesheet.RoleTeamMember, Date: "2025-01-20", StartTime: "10:00", EndTime: "16:00", DurationSeconds: 21600, ProjectID: 2, SubprojectID: 3, TaskID: 5, Notes: "iOS development work", Status: timesheet.StatusApproved, Billable: timesheet.Billed},
		{UserID: 5, Role: timesheet.RoleTeamMember, Date: "2025-01-21", StartTime: "09:30", EndTime: "12:30", DurationSeconds: 10800, ProjectID: 3, Notes: "Team meeting and planning", Status: timesheet.StatusSubmitted, Billable: timesheet.NonBilled},
		{UserID: 3, Role: timesheet.RoleTeamMember, Date: "2025-01-22", StartTime: timesheet.LockedClock, EndTime: timesheet.LockedClock, ProjectID: 1, Notes: "Company holiday - New Year celebration", Status: timesheet.StatusSubmitted, Billable: timesheet.NonBilled},
		{UserID: 4, Role: timesheet.RoleTeamMember, Date: "2025-01-23", StartTime: timesheet.LockedClock, EndTime: timesheet.LockedClock, ProjectID: 2, Notes: "Personal leave day", Status: timesheet.StatusApproved, Billable: timesheet.NonBilled},
	}
}

// SeedDemo appends the demo entries when the store holds no entries yet.
// It reports whether anything was written.
func SeedDemo(ctx context.Context, store Store, today string) (bool, error) {
	existing, err := store.LoadEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, entry := range DemoEntries(today) {
		if _, err := store.AppendEntry(ctx, entry); err != nil {
			return false, fmt.Errorf("seed demo entry: %w", err)
		}
	}
	return true, nil
}
