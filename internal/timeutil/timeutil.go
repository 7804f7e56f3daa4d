package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accounting-day format used by every persisted entry.
const DateLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate parses a YYYY-MM-DD accounting day in the local zone.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(parsed), nil
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}

// ToSeconds parses "HH:MM" into seconds since midnight. Invalid or empty
// input yields 0.
func ToSeconds(hhmm string) int {
	hours, minutes, ok := splitClock(hhmm)
	if !ok {
		return 0
	}
	return hours*3600 + minutes*60
}

// Duration returns the seconds between start and end. Spans where end is
// before start (overnight) clamp to 0.
func Duration(start, end string) int {
	return max(0, ToSeconds(end)-ToSeconds(start))
}

// FormatDuration renders seconds as "Xh Ym", flooring both parts.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

func SecondsToHHMM(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// HHMMToSeconds is the inverse of SecondsToHHMM. Unlike ToSeconds it accepts
// hour values of 24 and above, so day totals round-trip.
func HHMMToSeconds(hhmm string) int {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" || !strings.Contains(hhmm, ":") {
		return 0
	}
	parts := strings.SplitN(hhmm, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	if hours < 0 || minutes < 0 {
		return 0
	}
	return hours*3600 + minutes*60
}

// ValidClock reports whether value is a well-formed "HH:MM" wall-clock time.
// A single-digit hour is accepted; minutes always take two digits.
func ValidClock(value string) bool {
	_, _, ok := splitClock(value)
	return ok
}

// NormalizeClock returns value in zero-padded "HH:MM" form.
func NormalizeClock(value string) (string, bool) {
	hours, minutes, ok := splitClock(value)
	if !ok {
		return "", false
	}
	return SecondsToHHMM(hours*3600 + minutes*60), true
}

func splitClock(value string) (int, int, bool) {
	value = strings.TrimSpace(value)
	hoursRaw, minutesRaw, found := strings.Cut(value, ":")
	if !found || !digits(hoursRaw, 1, 2) || !digits(minutesRaw, 2, 2) {
		return 0, 0, false
	}
	hours, err := strconv.Atoi(hoursRaw)
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, false
	}
	minutes, err := strconv.Atoi(minutesRaw)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, false
	}
	return hours, minutes, true
}

func digits(value string, minLen, maxLen int) bool {
	if len(value) < minLen || len(value) > maxLen {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
