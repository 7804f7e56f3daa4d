package report

import (
	"time"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

type MemberSummary struct {
	User               timesheet.User `json:"user"`
	TotalSeconds       int            `json:"totalSeconds"`
	BillableSeconds    int            `json:"billableSeconds"`
	NonBillableSeconds int            `json:"nonBillableSeconds"`
	EntryCount         int            `json:"entryCount"`
	OverdueSubmissions int            `json:"overdueSubmissions"`
}

// MemberSummaries builds one row per non-owner user from an already filtered
// entry set. An entry counts as overdue while it is still submitted and its
// day lies more than overdueAfterDays before now.
func MemberSummaries(users []timesheet.User, entries []timesheet.Entry, now time.Time, overdueAfterDays int) []MemberSummary {
	cutoff := timeutil.FormatDate(timeutil.StartOfDay(now).AddDate(0, 0, -overdueAfterDays))

	byUser := make(map[int64][]timesheet.Entry, len(users))
	for _, entry := range entries {
		byUser[entry.UserID] = append(byUser[entry.UserID], entry)
	}

	out := make([]MemberSummary, 0, len(users))
	for _, user := range users {
		if user.Role == timesheet.RoleOwner {
			continue
		}
		summary := MemberSummary{User: user}
		for _, entry := range byUser[user.ID] {
			summary.EntryCount++
			summary.TotalSeconds += entry.DurationSeconds
			if entry.Billable == timesheet.Billed {
				summary.BillableSeconds += entry.DurationSeconds
			}
			if entry.Status == timesheet.StatusSubmitted {
				if day, err := timeutil.ParseDate(entry.Date); err == nil && timeutil.FormatDate(day) < cutoff {
					summary.OverdueSubmissions++
				}
			}
		}
		summary.NonBillableSeconds = summary.TotalSeconds - summary.BillableSeconds
		out = append(out, summary)
	}
	return out
}

// ActiveCount returns how many summaries carry at least one entry.
func ActiveCount(summaries []MemberSummary) int {
	n := 0
	for _, summary := range summaries {
		if summary.EntryCount > 0 {
			n++
		}
	}
	return n
}

// RoleTotals sums hours per role of the user who logged them, in roster
// order. Every role held by some user appears, even with a zero total.
func RoleTotals(users []timesheet.User, entries []timesheet.Entry) []Group {
	groups := make([]Group, 0, 3)
	index := make(map[timesheet.Role]int)
	roleOf := make(map[int64]timesheet.Role, len(users))
	for _, user := range users {
		roleOf[user.ID] = user.Role
		if _, ok := index[user.Role]; !ok {
			index[user.Role] = len(groups)
			groups = append(groups, Group{Key: string(user.Role), Label: RoleLabel(user.Role)})
		}
	}

	for _, entry := range entries {
		role, ok := roleOf[entry.UserID]
		if !ok {
			continue
		}
		groups[index[role]].TotalSeconds += entry.DurationSeconds
	}
	return groups
}

// InactiveUsers returns users without a single entry in entries.
func InactiveUsers(users []timesheet.User, entries []timesheet.Entry) []timesheet.User {
	seen := make(map[int64]struct{}, len(users))
	for _, entry := range entries {
		seen[entry.UserID] = struct{}{}
	}

	out := make([]timesheet.User, 0)
	for _, user := range users {
		if _, ok := seen[user.ID]; !ok {
			out = append(out, user)
		}
	}
	return out
}

type DayTotal struct {
	Date         string `json:"date"`
	TotalSeconds int    `json:"totalSeconds"`
}

// DailyTrend returns per-day totals for the days ending at end, oldest first.
func DailyTrend(entries []timesheet.Entry, end time.Time, days int) []DayTotal {
	if days <= 0 {
		return []DayTotal{}
	}

	totals := make(map[string]int, len(entries))
	for _, entry := range entries {
		totals[entry.Date] += entry.DurationSeconds
	}

	last := timeutil.StartOfDay(end)
	out := make([]DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := timeutil.FormatDate(last.AddDate(0, 0, -i))
		out = append(out, DayTotal{Date: date, TotalSeconds: totals[date]})
	}
	return out
}
