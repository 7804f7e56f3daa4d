package importer

import (
	"fmt"
	"strings"
	"time"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

// MapOptions fills columns a file does not carry.
type MapOptions struct {
	DefaultUserID    int64
	DefaultProjectID int64
}

// MapRecord turns one spreadsheet row into an entry candidate. It reports
// false for blank rows. Status, duration and id columns are ignored: the
// write path owns them.
func MapRecord(record Record, options MapOptions) (timesheet.Entry, bool, error) {
	if record.Blank() {
		return timesheet.Entry{}, false, nil
	}

	var entry timesheet.Entry
	var err error

	if entry.UserID, err = parseID(record.Get("userid", "user")); err != nil {
		return timesheet.Entry{}, false, fmt.Errorf("row %d: user: %w", record.RowNumber, err)
	}
	if entry.UserID == 0 {
		entry.UserID = options.DefaultUserID
	}
	entry.Role = timesheet.Role(strings.ToLower(record.Get("role")))

	if err := mapTimes(record, &entry); err != nil {
		return timesheet.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	ids := []struct {
		target *int64
		keys   []string
	}{
		{target: &entry.ProjectID, keys: []string{"projectid", "project"}},
		{target: &entry.SubprojectID, keys: []string{"subprojectid", "subproject"}},
		{target: &entry.TaskID, keys: []string{"taskid", "task"}},
		{target: &entry.SubtaskID, keys: []string{"subtaskid", "subtask"}},
	}
	for _, id := range ids {
		value, err := parseID(record.Get(id.keys...))
		if err != nil {
			return timesheet.Entry{}, false, fmt.Errorf("row %d: %s: %w", record.RowNumber, id.keys[0], err)
		}
		*id.target = value
	}
	if entry.ProjectID == 0 {
		entry.ProjectID = options.DefaultProjectID
	}

	entry.Notes = record.Get("notes", "description", "comment", "beschreibung")
	if entry.Billable, err = parseBillable(record.Get("billable")); err != nil {
		return timesheet.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	return entry, true, nil
}

// mapTimes accepts either Date + StartTime + EndTime columns, a start/end
// datetime pair, or a start plus an hours or minutes column.
func mapTimes(record Record, entry *timesheet.Entry) error {
	if raw := record.Get("startdatetime"); raw != "" {
		start, err := parseDateTime(raw)
		if err != nil {
			return fmt.Errorf("parse start datetime: %w", err)
		}
		entry.Date = timeutil.FormatDate(start)
		entry.StartTime = start.Format("15:04")
		if rawEnd := record.Get("enddatetime"); rawEnd != "" {
			end, err := parseDateTime(rawEnd)
			if err != nil {
				return fmt.Errorf("parse end datetime: %w", err)
			}
			if !timeutil.SameDay(start, end) {
				return fmt.Errorf("entry spans midnight: %s to %s", raw, rawEnd)
			}
			entry.EndTime = end.Format("15:04")
		}
	} else {
		date, err := parseDate(record.Get("date", "datum", "day"))
		if err != nil {
			return err
		}
		entry.Date = date
		if entry.StartTime, err = parseClock(record.Get("starttime", "start", "von")); err != nil {
			return err
		}
		if entry.EndTime, err = parseClock(record.Get("endtime", "end", "bis")); err != nil {
			return err
		}
	}

	if entry.EndTime != "" || entry.StartTime == "" {
		return nil
	}

	minutes, err := parseMinutes(record.Get("minutes"))
	if err != nil {
		return err
	}
	if minutes == 0 {
		if minutes, err = parseDecimalHoursToMinutes(record.Get("hours", "stunden")); err != nil {
			return err
		}
	}
	if minutes > 0 {
		start, _ := time.Parse("15:04", entry.StartTime)
		end := start.Add(time.Duration(minutes) * time.Minute)
		if end.Day() != start.Day() {
			return fmt.Errorf("start %s plus %d minutes spans midnight", entry.StartTime, minutes)
		}
		entry.EndTime = end.Format("15:04")
	}
	return nil
}
