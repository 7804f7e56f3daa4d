// Package calendar decides which accounting days are locked. A locked day
// only accepts notes-only entries.
package calendar

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gotimesheet/internal/timeutil"
)

// Policy is a pure function of the date: weekends plus a holiday set.
type Policy struct {
	holidays map[string]struct{}
}

// DefaultHolidays is the organization list used when no configuration is
// present. 2025-01-22 is an organization day off, not a public holiday.
func DefaultHolidays() map[int][]string {
	return map[int][]string{
		2025: {"2025-01-01", "2025-01-22", "2025-12-25"},
	}
}

// NewPolicy builds a policy from holidays keyed by calendar year. Every date
// must be YYYY-MM-DD and belong to the year it is listed under.
func NewPolicy(holidays map[int][]string) (Policy, error) {
	set := make(map[string]struct{})
	for year, dates := range holidays {
		for _, raw := range dates {
			day, err := timeutil.ParseDate(raw)
			if err != nil {
				return Policy{}, fmt.Errorf("invalid holiday %q: expected YYYY-MM-DD", raw)
			}
			if day.Year() != year {
				return Policy{}, fmt.Errorf("holiday %s is listed under year %d", raw, year)
			}
			set[timeutil.FormatDate(day)] = struct{}{}
		}
	}
	return Policy{holidays: set}, nil
}

// IsLocked reports whether date (YYYY-MM-DD) falls on a Saturday, a Sunday,
// or a configured holiday. Unparseable dates are not locked.
func (p Policy) IsLocked(date string) bool {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return false
	}
	return p.IsLockedTime(day)
}

func (p Policy) IsLockedTime(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	_, holiday := p.holidays[timeutil.FormatDate(day)]
	return holiday
}

func (p Policy) IsHoliday(date string) bool {
	_, ok := p.holidays[strings.TrimSpace(date)]
	return ok
}

// Holidays returns the configured dates in ascending order.
func (p Policy) Holidays() []string {
	out := make([]string, 0, len(p.holidays))
	for day := range p.holidays {
		out = append(out, day)
	}
	sort.Strings(out)
	return out
}

type holidayFile struct {
	Years map[string]holidayYear `toml:"years"`
}

type holidayYear struct {
	Dates []string `toml:"dates"`
}

// LoadHolidayFile reads a TOML holiday file of the form
//
//	[years.2025]
//	dates = ["2025-01-01", "2025-12-25"]
func LoadHolidayFile(path string) (map[int][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file %s: %w", path, err)
	}
	return ParseHolidayTOML(data)
}

func ParseHolidayTOML(data []byte) (map[int][]string, error) {
	var file holidayFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holiday file: %w", err)
	}

	out := make(map[int][]string, len(file.Years))
	for rawYear, year := range file.Years {
		parsed, err := strconv.Atoi(strings.TrimSpace(rawYear))
		if err != nil {
			return nil, fmt.Errorf("invalid holiday year %q", rawYear)
		}
		out[parsed] = append(out[parsed], year.Dates...)
	}
	return out, nil
}

// Merge combines holiday maps, later maps adding to earlier ones.
func Merge(sets ...map[int][]string) map[int][]string {
	out := make(map[int][]string)
	for _, set := range sets {
		for year, dates := range set {
			out[year] = append(out[year], dates...)
		}
	}
	return out
}
