// Package timeline inspects the entries of one user on one day. Its output
// is advisory and never blocks a write.
package timeline

import (
	"fmt"
	"slices"
	"sort"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

const DefaultGapThresholdMinutes = 30

type IssueKind string

const (
	IssueOverlap IssueKind = "overlap"
	IssueGap     IssueKind = "gap"
)

type Issue struct {
	Kind       IssueKind       `json:"type"`
	First      timesheet.Entry `json:"first"`
	Second     timesheet.Entry `json:"second"`
	GapSeconds int             `json:"gapSeconds,omitempty"`
	Message    string          `json:"message"`
}

// ForUserDay selects the entries of userID on date.
func ForUserDay(entries []timesheet.Entry, userID int64, date string) []timesheet.Entry {
	out := make([]timesheet.Entry, 0)
	for _, entry := range entries {
		if entry.UserID == userID && entry.Date == date {
			out = append(out, entry)
		}
	}
	return out
}

// SortByStart orders entries by start time. Equal starts keep their input
// order.
func SortByStart(entries []timesheet.Entry) []timesheet.Entry {
	sorted := slices.Clone(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timeutil.ToSeconds(sorted[i].StartTime) < timeutil.ToSeconds(sorted[j].StartTime)
	})
	return sorted
}

// FindIssues walks adjacent pairs of one user's day. A pair overlaps when the
// first ends after the second starts; otherwise a pause longer than
// gapThresholdMinutes is reported as a gap.
func FindIssues(entries []timesheet.Entry, gapThresholdMinutes int) []Issue {
	sorted := SortByStart(entries)
	threshold := gapThresholdMinutes * 60

	issues := make([]Issue, 0)
	for i := 0; i+1 < len(sorted); i++ {
		current, next := sorted[i], sorted[i+1]
		currentEnd := timeutil.ToSeconds(current.EndTime)
		nextStart := timeutil.ToSeconds(next.StartTime)

		if currentEnd > nextStart {
			issues = append(issues, Issue{
				Kind:   IssueOverlap,
				First:  current,
				Second: next,
				Message: fmt.Sprintf(
					"Overlap between %s-%s and %s-%s",
					current.StartTime, current.EndTime, next.StartTime, next.EndTime,
				),
			})
			continue
		}

		if gap := nextStart - currentEnd; gap > threshold {
			issues = append(issues, Issue{
				Kind:       IssueGap,
				First:      current,
				Second:     next,
				GapSeconds: gap,
				Message: fmt.Sprintf(
					"%d minute gap between %s and %s",
					gap/60, current.EndTime, next.StartTime,
				),
			})
		}
	}
	return issues
}

type interval struct {
	start int
	end   int
}

// NextFreeStart returns the earliest start at or after desired where a block
// of durationSeconds fits between the day's entries without overlapping. It
// reports false when no such slot exists before midnight.
func NextFreeStart(entries []timesheet.Entry, desired string, durationSeconds int) (string, bool) {
	if durationSeconds <= 0 {
		return "", false
	}

	busy := make([]interval, 0, len(entries))
	for _, entry := range entries {
		busy = addInterval(busy, interval{
			start: timeutil.ToSeconds(entry.StartTime),
			end:   timeutil.ToSeconds(entry.EndTime),
		})
	}

	candidate := timeutil.ToSeconds(desired)
	for _, slot := range busy {
		if candidate+durationSeconds <= slot.start {
			break
		}
		if candidate >= slot.end {
			continue
		}
		candidate = slot.end
	}

	if candidate+durationSeconds >= 24*60*60 {
		return "", false
	}
	return timeutil.SecondsToHHMM(candidate), true
}

func addInterval(busy []interval, in interval) []interval {
	if in.end <= in.start {
		return busy
	}

	all := append(slices.Clone(busy), in)
	sort.Slice(all, func(i, j int) bool {
		return all[i].start < all[j].start
	})

	merged := make([]interval, 0, len(all))
	current := all[0]
	for _, next := range all[1:] {
		if next.start > current.end {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.end > current.end {
			current.end = next.end
		}
	}
	return append(merged, current)
}

func coveredSeconds(entries []timesheet.Entry) int {
	busy := make([]interval, 0, len(entries))
	for _, entry := range entries {
		busy = addInterval(busy, interval{
			start: timeutil.ToSeconds(entry.StartTime),
			end:   timeutil.ToSeconds(entry.EndTime),
		})
	}
	covered := 0
	for _, slot := range busy {
		covered += slot.end - slot.start
	}
	return covered
}
