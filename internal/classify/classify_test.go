package classify

import (
	"testing"

	"gotimesheet/timesheet"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	base := entry(3, "2025-01-20", "09:00", "12:00")
	cases := []struct {
		name  string
		other timesheet.Entry
		want  bool
	}{
		{name: "touching after", other: entry(3, "2025-01-20", "12:00", "13:00"), want: false},
		{name: "touching before", other: entry(3, "2025-01-20", "08:00", "09:00"), want: false},
		{name: "partial", other: entry(3, "2025-01-20", "11:00", "13:00"), want: true},
		{name: "contained", other: entry(3, "2025-01-20", "10:00", "10:30"), want: true},
		{name: "other user", other: entry(4, "2025-01-20", "10:00", "11:00"), want: false},
		{name: "other day", other: entry(3, "2025-01-21", "10:00", "11:00"), want: false},
		{name: "zero length", other: entry(3, "2025-01-20", "00:00", "00:00"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(base, tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.other, base); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestFindOverlap_ReturnsConflictingEntry(t *testing.T) {
	t.Parallel()

	existing := []timesheet.Entry{
		entry(3, "2025-01-20", "09:00", "12:00"),
		entry(3, "2025-01-20", "13:00", "17:00"),
	}
	existing[0].ID = 1
	existing[1].ID = 2

	hit, ok := FindOverlap(existing, entry(3, "2025-01-20", "16:00", "18:00"))
	if !ok {
		t.Fatalf("expected overlap")
	}
	if hit.ID != 2 {
		t.Fatalf("expected entry 2 to conflict, got %d", hit.ID)
	}

	if _, ok := FindOverlap(existing, entry(3, "2025-01-20", "12:00", "13:00")); ok {
		t.Fatalf("expected the lunch gap to be free")
	}
}

func TestEquivalent_IgnoresNotesAndStatus(t *testing.T) {
	t.Parallel()

	a := entry(3, "2025-01-20", "09:00", "10:00")
	b := a
	b.ID = 7
	b.Notes = "different notes"
	b.Status = timesheet.StatusApproved
	if !Equivalent(a, b) {
		t.Fatalf("expected entries differing only in notes and status to be equivalent")
	}

	b.SubprojectID = 2
	if Equivalent(a, b) {
		t.Fatalf("expected a different project path to break equivalence")
	}
}

func entry(userID int64, date, start, end string) timesheet.Entry {
	return timesheet.Entry{
		UserID:    userID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		ProjectID: 1,
	}
}
