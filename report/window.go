package report

import (
	"fmt"
	"strings"
	"time"

	"gotimesheet/internal/timeutil"
)

type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
)

func ParsePeriod(value string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(value))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return p, nil
	case "":
		return PeriodWeekly, nil
	default:
		return "", fmt.Errorf("unsupported period %q (valid: daily, weekly, monthly, quarterly)", value)
	}
}

// Window is an inclusive range of accounting days.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the period containing ref. Weeks run Sunday to Saturday;
// quarters are the calendar blocks Jan-Mar, Apr-Jun, Jul-Sep and Oct-Dec.
func WindowFor(period Period, ref time.Time) (Window, error) {
	day := timeutil.StartOfDay(ref)
	year, month, _ := day.Date()
	loc := day.Location()

	switch period {
	case PeriodDaily:
		return Window{Start: day, End: day}, nil
	case PeriodWeekly:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return Window{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PeriodMonthly:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: time.Date(year, month+1, 0, 0, 0, 0, 0, loc)}, nil
	case PeriodQuarterly:
		first := time.Month((int(month)-1)/3*3 + 1)
		start := time.Date(year, first, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: time.Date(year, first+3, 0, 0, 0, 0, 0, loc)}, nil
	default:
		return Window{}, fmt.Errorf("unsupported period %q", period)
	}
}

// Contains reports whether date (YYYY-MM-DD) lies inside the window.
// Days are compared on the calendar, whatever zone the window was built in.
// Unparseable dates are outside every window.
func (w Window) Contains(date string) bool {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return false
	}
	key := timeutil.FormatDate(day)
	return key >= timeutil.FormatDate(w.Start) && key <= timeutil.FormatDate(w.End)
}

func (w Window) String() string {
	return timeutil.FormatDate(w.Start) + ".." + timeutil.FormatDate(w.End)
}
