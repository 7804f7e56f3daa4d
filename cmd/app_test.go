package cmd

import (
	"errors"
	"testing"
	"time"

	"gotimesheet/submitter"
	"gotimesheet/timesheet"
)

func TestResolveUser(t *testing.T) {
	t.Parallel()

	users := timesheet.DefaultUsers()

	current, err := resolveUser(users, 0)
	if err != nil {
		t.Fatalf("resolve acting user: %v", err)
	}
	if current.ID != 3 {
		t.Fatalf("expected first team member as acting user, got %+v", current)
	}

	manager, err := resolveUser(users, 2)
	if err != nil {
		t.Fatalf("resolve user 2: %v", err)
	}
	if manager.Role != timesheet.RoleManager {
		t.Fatalf("expected manager, got %+v", manager)
	}

	if _, err := resolveUser(users, 99); !errors.Is(err, submitter.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
	if _, err := resolveUser(nil, 0); err == nil {
		t.Fatalf("expected error for empty roster")
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 21, 18, 30, 0, 0, time.Local)

	got, err := resolveDate("", now)
	if err != nil || got != "2025-01-21" {
		t.Fatalf("expected today, got %q err=%v", got, err)
	}
	got, err = resolveDate(" 2025-02-03 ", now)
	if err != nil || got != "2025-02-03" {
		t.Fatalf("expected trimmed date, got %q err=%v", got, err)
	}
	for _, bad := range []string{"2025-02-30", "21.01.2025", "tomorrow"} {
		if _, err := resolveDate(bad, now); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseEntryID(t *testing.T) {
	t.Parallel()

	id, err := parseEntryID(" 12 ")
	if err != nil || id != 12 {
		t.Fatalf("expected 12, got %d err=%v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseEntryID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
