package importer

import (
	"testing"

	"gotimesheet/timesheet"
)

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "empty", input: "", want: 0},
		{name: "integer minutes", input: "8", want: 8},
		{name: "decimal dot", input: "7.5", want: 8},
		{name: "decimal comma", input: "7,4", want: 7},
		{name: "negative", input: "-1", wantErr: true},
		{name: "invalid", input: "abc", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseMinutes(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected minutes for %q: want %d, got %d", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseDecimalHoursToMinutes(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]int{"1.5": 90, "1,25": 75, "": 0, "8": 480} {
		got, err := parseDecimalHoursToMinutes(input)
		if err != nil || got != want {
			t.Fatalf("parseDecimalHoursToMinutes(%q) = %d, %v; want %d", input, got, err, want)
		}
	}
}

func TestParseDateAndClock(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]string{
		"2025-01-20": "2025-01-20",
		"20.01.2025": "2025-01-20",
		"01/20/2025": "2025-01-20",
	} {
		got, err := parseDate(input)
		if err != nil || got != want {
			t.Fatalf("parseDate(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := parseDate("tomorrow"); err == nil {
		t.Fatalf("expected error for unsupported date")
	}

	for input, want := range map[string]string{
		"9:05":     "09:05",
		"09:05":    "09:05",
		"1:30 pm":  "13:30",
		"17:00:00": "17:00",
		"":         "",
	} {
		got, err := parseClock(input)
		if err != nil || got != want {
			t.Fatalf("parseClock(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
}

func TestParseBillable(t *testing.T) {
	t.Parallel()

	cases := map[string]timesheet.Billable{
		"billable":     timesheet.Billed,
		"Yes":          timesheet.Billed,
		"non_billable": timesheet.NonBilled,
		"Non-Billable": timesheet.NonBilled,
		"0":            timesheet.NonBilled,
		"":             "",
	}
	for input, want := range cases {
		got, err := parseBillable(input)
		if err != nil || got != want {
			t.Fatalf("parseBillable(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := parseBillable("sometimes"); err == nil {
		t.Fatalf("expected error for unsupported billable flag")
	}
}
