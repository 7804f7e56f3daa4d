package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Storage.DBPath != "./gotimesheet.db" || cfg.Timeline.GapThresholdMinutes != 30 || cfg.Server.Port != 8080 {
		t.Fatalf("unexpected example values %+v", cfg)
	}

	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !policy.IsLocked("2025-01-22") {
		t.Fatalf("expected configured holiday to lock the day")
	}
}

func TestValidateYAMLContent_DefaultsApply(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Report.TopN != 5 || cfg.Report.OverdueAfterDays != 2 || cfg.Report.TrendDays != 7 {
		t.Fatalf("expected report defaults, got %+v", cfg.Report)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}

	sets, err := cfg.HolidaySets()
	if err != nil {
		t.Fatalf("holiday sets: %v", err)
	}
	if len(sets[2025]) != 3 {
		t.Fatalf("expected built-in holidays without configuration, got %v", sets)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "gap threshold", content: "timeline:\n  gap_threshold_minutes: 0\n", want: "GapThresholdMinutes"},
		{name: "port", content: "server:\n  port: 70000\n", want: "Port"},
		{name: "empty db path", content: "storage:\n  db_path: \"\"\n", want: "DBPath"},
		{name: "malformed holiday", content: "calendar:\n  holidays:\n    \"2025\": [\"01.01.2025\"]\n", want: "calendar.holidays"},
		{name: "holiday in wrong year", content: "calendar:\n  holidays:\n    \"2026\": [\"2025-12-25\"]\n", want: "calendar.holidays"},
		{name: "year key", content: "calendar:\n  holidays:\n    \"next\": [\"2025-12-25\"]\n", want: "invalid year"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestPolicy_MergesHolidayFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "holidays.toml")
	if err := os.WriteFile(path, []byte("[years.2026]\ndates = [\"2026-01-02\"]\n"), 0o644); err != nil {
		t.Fatalf("write holiday file: %v", err)
	}

	content := "calendar:\n  holidays:\n    \"2025\": [\"2025-12-24\"]\n  holiday_file: \"" + filepath.ToSlash(path) + "\"\n"
	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !policy.IsLocked("2025-12-24") || !policy.IsLocked("2026-01-02") {
		t.Fatalf("expected both configured and file holidays to lock")
	}
	if policy.IsLocked("2025-01-22") {
		t.Fatalf("explicit holidays replace the built-in list")
	}
}
