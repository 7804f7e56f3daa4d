package web

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gotimesheet/calendar"
	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/timeline"
	"gotimesheet/timesheet"
)

type WindowView struct {
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type DayView struct {
	Summary  timeline.Summary  `json:"summary"`
	Entries  []timesheet.Entry `json:"entries"`
	Issues   []timeline.Issue  `json:"issues"`
	Locked   bool              `json:"locked"`
	Holiday  bool              `json:"holiday"`
	Duration string            `json:"duration"`
}

type ReportView struct {
	Window       WindowView        `json:"window"`
	Group        string            `json:"group"`
	TotalSeconds int               `json:"totalSeconds"`
	Groups       []report.Group    `json:"groups"`
	Trend        []report.DayTotal `json:"trend"`
	Roles        []report.Group    `json:"roles,omitempty"`
	EntryCount   int               `json:"entryCount"`
}

type MembersView struct {
	Window      WindowView             `json:"window"`
	Members     []report.MemberSummary `json:"members"`
	ActiveCount int                    `json:"activeCount"`
	Inactive    []timesheet.User       `json:"inactive"`
}

// BuildDayView collects everything the day screen shows for one user.
func BuildDayView(entries []timesheet.Entry, userID int64, date string, catalog timesheet.Catalog, policy calendar.Policy, gapThresholdMinutes int) DayView {
	day := timeline.SortByStart(timeline.ForUserDay(entries, userID, date))
	summary := timeline.DaySummary(date, day, catalog)

	return DayView{
		Summary:  summary,
		Entries:  day,
		Issues:   timeline.FindIssues(day, gapThresholdMinutes),
		Locked:   policy.IsLocked(date),
		Holiday:  policy.IsHoliday(date),
		Duration: timeutil.FormatDuration(summary.TotalSeconds),
	}
}

// BuildReportView groups the entries inside window by groupBy and keeps the
// top n groups. The trend always covers trendDays ending at the window end.
func BuildReportView(entries []timesheet.Entry, window report.Window, period report.Period, groupBy string, n, trendDays int, users []timesheet.User, catalog timesheet.Catalog) (ReportView, error) {
	inWindow := report.FilterEntries(entries, report.Filter{Window: &window})

	var groups []report.Group
	switch groupBy {
	case "role":
		groups = report.RoleTotals(users, inWindow)
	default:
		keyFn, err := keyFuncFor(groupBy, users, catalog)
		if err != nil {
			return ReportView{}, err
		}
		groups = report.GroupEntries(inWindow, keyFn)
	}
	groups = report.TopN(dropGroupEntries(groups), n)

	return ReportView{
		Window:       windowView(period, window),
		Group:        groupBy,
		TotalSeconds: report.Total(inWindow),
		Groups:       groups,
		Trend:        report.DailyTrend(entries, window.End, trendDays),
		Roles:        dropGroupEntries(report.RoleTotals(users, inWindow)),
		EntryCount:   len(inWindow),
	}, nil
}

func BuildMembersView(entries []timesheet.Entry, window report.Window, period report.Period, users []timesheet.User, now time.Time, overdueAfterDays int) MembersView {
	inWindow := report.FilterEntries(entries, report.Filter{Window: &window})
	members := report.MemberSummaries(users, inWindow, now, overdueAfterDays)

	return MembersView{
		Window:      windowView(period, window),
		Members:     members,
		ActiveCount: report.ActiveCount(members),
		Inactive:    report.InactiveUsers(users, inWindow),
	}
}

func keyFuncFor(groupBy string, users []timesheet.User, catalog timesheet.Catalog) (report.KeyFunc, error) {
	switch groupBy {
	case "user":
		return report.ByUser(users), nil
	case "project":
		return report.ByProject(catalog), nil
	case "path":
		return report.ByProjectPath(catalog), nil
	case "billable":
		return report.ByBillable, nil
	default:
		return nil, fmt.Errorf("unsupported group %q (valid: user, role, project, path, billable)", groupBy)
	}
}

func dropGroupEntries(groups []report.Group) []report.Group {
	out := make([]report.Group, len(groups))
	for i, group := range groups {
		group.Entries = nil
		out[i] = group
	}
	return out
}

func windowView(period report.Period, window report.Window) WindowView {
	return WindowView{
		Period: string(period),
		Start:  timeutil.FormatDate(window.Start),
		End:    timeutil.FormatDate(window.End),
	}
}

// parseWindow resolves period and ref query values. An empty ref means today.
func parseWindow(periodValue, refValue string, now time.Time) (report.Period, report.Window, error) {
	period, err := report.ParsePeriod(periodValue)
	if err != nil {
		return "", report.Window{}, err
	}

	ref := now
	if value := strings.TrimSpace(refValue); value != "" {
		ref, err = timeutil.ParseDate(value)
		if err != nil {
			return "", report.Window{}, fmt.Errorf("invalid ref %q: expected YYYY-MM-DD", refValue)
		}
	}

	window, err := report.WindowFor(period, ref)
	if err != nil {
		return "", report.Window{}, err
	}
	return period, window, nil
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("id must be > 0")
	}
	return parsed, nil
}

// parseOptionalID returns 0 for an empty value.
func parseOptionalID(value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parsePositiveInt64(value)
}
