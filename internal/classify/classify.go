package classify

import (
	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

// Overlaps reports whether two entries of the same user on the same day
// share any time. Intervals are half-open, so touching blocks do not overlap.
func Overlaps(a, b timesheet.Entry) bool {
	if a.UserID != b.UserID || a.Date != b.Date {
		return false
	}
	aStart, aEnd := timeutil.ToSeconds(a.StartTime), timeutil.ToSeconds(a.EndTime)
	bStart, bEnd := timeutil.ToSeconds(b.StartTime), timeutil.ToSeconds(b.EndTime)
	if aEnd <= aStart || bEnd <= bStart {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// FindOverlap returns the first entry in existing that overlaps candidate.
func FindOverlap(existing []timesheet.Entry, candidate timesheet.Entry) (timesheet.Entry, bool) {
	for _, entry := range existing {
		if Overlaps(candidate, entry) {
			return entry, true
		}
	}
	return timesheet.Entry{}, false
}

// Equivalent reports whether two entries describe the same block of work.
// Notes, status and ids are ignored.
func Equivalent(a, b timesheet.Entry) bool {
	return a.UserID == b.UserID &&
		a.Date == b.Date &&
		a.StartTime == b.StartTime &&
		a.EndTime == b.EndTime &&
		a.ProjectID == b.ProjectID &&
		a.SubprojectID == b.SubprojectID &&
		a.TaskID == b.TaskID &&
		a.SubtaskID == b.SubtaskID
}
