package output

import (
	"fmt"
	"strconv"

	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

// EntryHeaders is the column layout of entry exports and imports.
var EntryHeaders = []string{
	"ID", "UserID", "User", "Role", "Date", "StartTime", "EndTime", "Duration", "DurationSeconds",
	"ProjectID", "SubprojectID", "TaskID", "SubtaskID", "Path", "Notes", "Status", "Billable",
}

func EntryTable(entries []timesheet.Entry, users []timesheet.User, catalog timesheet.Catalog) Table {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		name := ""
		if user, ok := timesheet.FindUser(users, entry.UserID); ok {
			name = user.Name
		}
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			strconv.FormatInt(entry.UserID, 10),
			name,
			string(entry.Role),
			entry.Date,
			entry.StartTime,
			entry.EndTime,
			timeutil.FormatDuration(entry.DurationSeconds),
			strconv.Itoa(entry.DurationSeconds),
			strconv.FormatInt(entry.ProjectID, 10),
			optionalID(entry.SubprojectID),
			optionalID(entry.TaskID),
			optionalID(entry.SubtaskID),
			catalog.Path(entry),
			entry.Notes,
			string(entry.Status),
			string(entry.Billable),
		})
	}
	return Table{Sheet: "Entries", Headers: EntryHeaders, Rows: rows}
}

func GroupTable(groups []report.Group) Table {
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{
			group.Key,
			group.Label,
			timeutil.FormatDuration(group.TotalSeconds),
			hours(group.TotalSeconds),
			strconv.Itoa(group.TotalSeconds),
		})
	}
	return Table{Sheet: "Totals", Headers: []string{"Key", "Label", "Total", "Hours", "TotalSeconds"}, Rows: rows}
}

func DailySummaryTable(summaries []timeline.Summary) Table {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.Date,
			summary.Start,
			summary.End,
			hours(summary.TotalSeconds),
			hours(summary.BreakSeconds),
			strconv.Itoa(summary.EntryCount),
		})
	}
	return Table{Sheet: "Daily", Headers: []string{"Date", "StartTime", "EndTime", "WorkedHours", "BreakHours", "EntryCount"}, Rows: rows}
}

func optionalID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func hours(seconds int) string {
	return fmt.Sprintf("%.2f", float64(seconds)/3600)
}
