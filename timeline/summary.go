package timeline

import (
	"sort"

	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/timesheet"
)

// Summary describes one day of work for a single user.
type Summary struct {
	Date         string         `json:"date"`
	Start        string         `json:"start"`
	End          string         `json:"end"`
	TotalSeconds int            `json:"totalSeconds"`
	BreakSeconds int            `json:"breakSeconds"`
	EntryCount   int            `json:"entryCount"`
	Paths        []report.Group `json:"paths"`
}

// DaySummary totals one user's day and breaks it down by project path.
// Breaks are the parts of the first-start to last-end span not covered by
// any entry.
func DaySummary(date string, entries []timesheet.Entry, catalog timesheet.Catalog) Summary {
	summary := Summary{Date: date, EntryCount: len(entries), Paths: []report.Group{}}
	if len(entries) == 0 {
		return summary
	}

	sorted := SortByStart(entries)
	start := timeutil.ToSeconds(sorted[0].StartTime)
	end := start
	for _, entry := range sorted {
		if e := timeutil.ToSeconds(entry.EndTime); e > end {
			end = e
		}
	}

	summary.Start = timeutil.SecondsToHHMM(start)
	summary.End = timeutil.SecondsToHHMM(end)
	summary.TotalSeconds = report.Total(sorted)
	summary.BreakSeconds = max(0, (end-start)-coveredSeconds(sorted))

	groups := report.GroupEntries(sorted, report.ByProjectPath(catalog))
	for i := range groups {
		groups[i].Entries = nil
	}
	summary.Paths = groups
	return summary
}

// DailySummaries builds one Summary per day for the given entries, oldest
// day first. Callers pass a single user's entries.
func DailySummaries(entries []timesheet.Entry, catalog timesheet.Catalog) []Summary {
	byDay := make(map[string][]timesheet.Entry)
	for _, entry := range entries {
		byDay[entry.Date] = append(byDay[entry.Date], entry)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]Summary, 0, len(days))
	for _, day := range days {
		out = append(out, DaySummary(day, byDay[day], catalog))
	}
	return out
}
