package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

// parseDecimalHoursToMinutes accepts "7.5", "7,5" and "1.234,5" style hours.
func parseDecimalHoursToMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}

	minutes := int(math.Round(hours * 60))
	if minutes < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	return minutes, nil
}

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return rounded, nil
}

// parseDate normalizes the accepted day layouts to YYYY-MM-DD.
func parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}

	layouts := []string{
		timeutil.DateLayout,
		"02.01.2006",
		"2.1.2006",
		"01/02/2006",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return timeutil.FormatDate(parsed), nil
		}
	}

	return "", fmt.Errorf("unsupported date format: %q", value)
}

// parseClock normalizes "9:05", "09:05" and "9:05 AM" to "09:05".
func parseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	layouts := []string{"15:04", "3:04 PM", "03:04 PM", "15:04:05"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, strings.ToUpper(value)); err == nil {
			return parsed.Format("15:04"), nil
		}
	}

	return "", fmt.Errorf("unsupported time format: %q", value)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"02.01.2006 15:04",
		"02.01.2006 03:04 PM",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}

func parseID(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

// parseBillable maps spreadsheet style flags to the billable enum. An empty
// value stays empty so the write path applies its default.
func parseBillable(value string) (timesheet.Billable, error) {
	switch normalizeHeader(value) {
	case "":
		return "", nil
	case "billable", "true", "yes", "y", "1", "x":
		return timesheet.Billed, nil
	case "nonbillable", "false", "no", "n", "0":
		return timesheet.NonBilled, nil
	default:
		return "", fmt.Errorf("unsupported billable value %q", value)
	}
}
