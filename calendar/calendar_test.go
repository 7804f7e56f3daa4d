package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPolicy_IsLocked(t *testing.T) {
	t.Parallel()

	policy, err := NewPolicy(DefaultHolidays())
	if err != nil {
		t.Fatalf("build policy: %v", err)
	}

	tests := []struct {
		date string
		want bool
	}{
		{date: "2025-01-18", want: true},  // Saturday
		{date: "2025-01-19", want: true},  // Sunday
		{date: "2025-01-20", want: false}, // Monday
		{date: "2025-01-22", want: true},  // organization holiday
		{date: "2025-12-25", want: true},
		{date: "2026-01-22", want: false},
		{date: "not-a-date", want: false},
	}

	for _, tt := range tests {
		if got := policy.IsLocked(tt.date); got != tt.want {
			t.Fatalf("IsLocked(%s): expected %v, got %v", tt.date, tt.want, got)
		}
		if again := policy.IsLocked(tt.date); again != policy.IsLocked(tt.date) {
			t.Fatalf("IsLocked(%s) is not stable", tt.date)
		}
	}
}

func TestNewPolicy_RejectsMalformedDates(t *testing.T) {
	t.Parallel()

	if _, err := NewPolicy(map[int][]string{2025: {"25.12.2025"}}); err == nil {
		t.Fatalf("expected error for non-ISO holiday")
	}
	_, err := NewPolicy(map[int][]string{2024: {"2025-12-25"}})
	if err == nil || !strings.Contains(err.Error(), "listed under year") {
		t.Fatalf("expected year mismatch error, got %v", err)
	}
}

func TestLoadHolidayFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "holidays.toml")
	content := []byte(`[years.2026]
dates = ["2026-01-01", "2026-05-01"]

[years.2027]
dates = ["2027-01-01"]
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write holiday file: %v", err)
	}

	holidays, err := LoadHolidayFile(path)
	if err != nil {
		t.Fatalf("load holiday file: %v", err)
	}
	if len(holidays[2026]) != 2 || len(holidays[2027]) != 1 {
		t.Fatalf("unexpected holidays: %v", holidays)
	}

	policy, err := NewPolicy(Merge(DefaultHolidays(), holidays))
	if err != nil {
		t.Fatalf("build policy: %v", err)
	}
	if !policy.IsLocked("2026-05-01") {
		t.Fatalf("expected file holiday to lock the day")
	}
	if !policy.IsHoliday("2025-01-22") {
		t.Fatalf("expected default holiday to survive the merge")
	}
	if got := policy.Holidays(); len(got) != 6 || got[0] != "2025-01-01" {
		t.Fatalf("unexpected sorted holidays: %v", got)
	}
}

func TestParseHolidayTOML_InvalidYear(t *testing.T) {
	t.Parallel()

	if _, err := ParseHolidayTOML([]byte("[years.next]\ndates = []\n")); err == nil {
		t.Fatalf("expected error for non-numeric year")
	}
}
