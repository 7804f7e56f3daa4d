package report

import (
	"slices"
	"strconv"
	"strings"

	"gotimesheet/timesheet"
)

// Filter narrows an entry set. Zero fields match everything.
type Filter struct {
	Window    *Window
	UserID    int64
	Role      timesheet.Role
	ProjectID int64
}

func (f Filter) Match(entry timesheet.Entry) bool {
	if f.Window != nil && !f.Window.Contains(entry.Date) {
		return false
	}
	if f.UserID != 0 && entry.UserID != f.UserID {
		return false
	}
	if f.Role != "" && entry.Role != f.Role {
		return false
	}
	if f.ProjectID != 0 && entry.ProjectID != f.ProjectID {
		return false
	}
	return true
}

func FilterEntries(entries []timesheet.Entry, filter Filter) []timesheet.Entry {
	out := make([]timesheet.Entry, 0, len(entries))
	for _, entry := range entries {
		if filter.Match(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// Total sums the stored durations.
func Total(entries []timesheet.Entry) int {
	total := 0
	for _, entry := range entries {
		total += entry.DurationSeconds
	}
	return total
}

type Group struct {
	Key          string            `json:"key"`
	Label        string            `json:"label"`
	TotalSeconds int               `json:"totalSeconds"`
	Entries      []timesheet.Entry `json:"entries,omitempty"`
}

// KeyFunc maps an entry to its group key and display label.
type KeyFunc func(timesheet.Entry) (key, label string)

// GroupEntries partitions entries by key. Groups keep the order in which
// their key was first seen, and the group totals add up to Total(entries).
func GroupEntries(entries []timesheet.Entry, keyFn KeyFunc) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, entry := range entries {
		key, label := keyFn(entry)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Label: label})
		}
		groups[i].TotalSeconds += entry.DurationSeconds
		groups[i].Entries = append(groups[i].Entries, entry)
	}
	return groups
}

// TopN returns the n largest groups by total. Ties keep their input order.
func TopN(groups []Group, n int) []Group {
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b Group) int {
		return b.TotalSeconds - a.TotalSeconds
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func ByUser(users []timesheet.User) KeyFunc {
	return func(entry timesheet.Entry) (string, string) {
		key := strconv.FormatInt(entry.UserID, 10)
		if user, ok := timesheet.FindUser(users, entry.UserID); ok {
			return key, user.Name
		}
		return key, "User " + key
	}
}

func ByBillable(entry timesheet.Entry) (string, string) {
	if entry.Billable == timesheet.Billed {
		return string(timesheet.Billed), "Billable"
	}
	return string(timesheet.NonBilled), "Non-billable"
}

func ByProject(catalog timesheet.Catalog) KeyFunc {
	return func(entry timesheet.Entry) (string, string) {
		return strconv.FormatInt(entry.ProjectID, 10), catalog.ProjectName(entry.ProjectID)
	}
}

// ByProjectPath groups on project, subproject and task together.
func ByProjectPath(catalog timesheet.Catalog) KeyFunc {
	return func(entry timesheet.Entry) (string, string) {
		key := strconv.FormatInt(entry.ProjectID, 10) + "-" +
			strconv.FormatInt(entry.SubprojectID, 10) + "-" +
			strconv.FormatInt(entry.TaskID, 10)
		return key, catalog.Path(entry)
	}
}

func RoleLabel(role timesheet.Role) string {
	return strings.ReplaceAll(string(role), "_", " ")
}
