package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"gotimesheet/report"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

func sampleEntries() []timesheet.Entry {
	return []timesheet.Entry{
		{ID: 1, UserID: 3, Role: timesheet.RoleTeamMember, Date: "2025-01-20", StartTime: "09:00", EndTime: "12:00", DurationSeconds: 10800, ProjectID: 1, SubprojectID: 1, TaskID: 1, Notes: "Header, footer", Status: timesheet.StatusSubmitted, Billable: timesheet.Billed},
		{ID: 2, UserID: 5, Role: timesheet.RoleTeamMember, Date: "2025-01-21", StartTime: "09:30", EndTime: "12:30", DurationSeconds: 10800, ProjectID: 3, Notes: "Planning", Status: timesheet.StatusApproved, Billable: timesheet.NonBilled},
	}
}

func TestWriteFile_CSVEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.csv")
	table := EntryTable(sampleEntries(), timesheet.DefaultUsers(), timesheet.NewCatalog(timesheet.DefaultProjects()))
	if err := WriteFile(path, table); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	first := records[1]
	if first[2] != "Carol Davis" || first[7] != "3h 0m" || first[13] != "Website Redesign > Frontend Development > Create React Components" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first[14] != "Header, footer" {
		t.Fatalf("expected quoted notes to survive, got %q", first[14])
	}
	if records[2][10] != "" || records[2][13] != "Marketing Campaign" {
		t.Fatalf("unexpected second row %v", records[2])
	}
}

func TestWriteFile_ExcelGroups(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "totals.xlsx")
	groups := report.GroupEntries(sampleEntries(), report.ByBillable)
	if err := WriteFile(path, GroupTable(groups)); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Totals")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][1] != "Billable" || rows[1][3] != "3.00" {
		t.Fatalf("unexpected billable row %v", rows[1])
	}
}

func TestDailySummaryTable(t *testing.T) {
	t.Parallel()

	summaries := timeline.DailySummaries(sampleEntries()[:1], timesheet.NewCatalog(nil))
	table := DailySummaryTable(summaries)
	if len(table.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(table.Rows))
	}
	row := table.Rows[0]
	if row[0] != "2025-01-20" || row[1] != "09:00" || row[2] != "12:00" || row[3] != "3.00" || row[4] != "0.00" {
		t.Fatalf("unexpected daily row %v", row)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{"out.csv": "csv", "OUT.XLSX": "xlsx"}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%s) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("out.json"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
