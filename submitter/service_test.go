package submitter

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"gotimesheet/calendar"
	"gotimesheet/internal/timeutil"
	"gotimesheet/notify"
	"gotimesheet/storage"
	"gotimesheet/timesheet"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.Kind)
	}
	return out
}

func newTestService(t *testing.T) (*Service, storage.Store, *recordingNotifier) {
	t.Helper()

	policy, err := calendar.NewPolicy(calendar.DefaultHolidays())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	store := storage.NewMemoryStore()
	notifier := &recordingNotifier{}
	return NewService(store, policy, notifier, nil), store, notifier
}

func candidate(userID int64, date, start, end string) timesheet.Entry {
	return timesheet.Entry{
		UserID:       userID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		ProjectID:    1,
		SubprojectID: 1,
		TaskID:       1,
		Notes:        "work",
		Billable:     timesheet.Billed,
	}
}

func TestSubmit_ComputesDurationAndForcesStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store, notifier := newTestService(t)

	input := candidate(3, "2025-01-20", "09:00", "10:30")
	input.Status = timesheet.StatusApproved
	input.DurationSeconds = 99

	id, err := service.Submit(ctx, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, found, err := store.GetEntry(ctx, id)
	if err != nil || !found {
		t.Fatalf("get entry: found=%v err=%v", found, err)
	}
	if stored.DurationSeconds != 5400 {
		t.Fatalf("expected 5400 seconds, got %d", stored.DurationSeconds)
	}
	if stored.Status != timesheet.StatusSubmitted {
		t.Fatalf("expected submitted status, got %s", stored.Status)
	}
	if stored.Role != timesheet.RoleTeamMember {
		t.Fatalf("expected role filled from user roster, got %q", stored.Role)
	}
	if kinds := notifier.kinds(); len(kinds) != 1 || kinds[0] != notify.KindSubmitted {
		t.Fatalf("expected one submitted event, got %v", kinds)
	}
}

func TestSubmit_StoresZeroPaddedClocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store, _ := newTestService(t)

	id, err := service.Submit(ctx, candidate(3, "2025-01-20", "9:00", " 9:45"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, _, err := store.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if stored.StartTime != "09:00" || stored.EndTime != "09:45" || stored.DurationSeconds != 2700 {
		t.Fatalf("expected 09:00-09:45, got %s-%s (%d)", stored.StartTime, stored.EndTime, stored.DurationSeconds)
	}

	for _, bad := range [][2]string{{"9:5", "10:00"}, {"+9:00", "10:00"}} {
		if _, err := service.Submit(ctx, candidate(3, "2025-01-21", bad[0], bad[1])); !errors.Is(err, ErrInvalidTimeRange) {
			t.Fatalf("%s-%s: expected ErrInvalidTimeRange, got %v", bad[0], bad[1], err)
		}
	}
}

func TestSubmit_ValidationOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*timesheet.Entry)
		want   error
	}{
		{
			name:   "missing project",
			mutate: func(e *timesheet.Entry) { e.ProjectID, e.SubprojectID, e.TaskID = 0, 0, 0 },
			want:   ErrMissingProject,
		},
		{
			name:   "missing project wins over bad range",
			mutate: func(e *timesheet.Entry) { e.ProjectID, e.SubprojectID, e.TaskID, e.EndTime = 0, 0, 0, "08:00" },
			want:   ErrMissingProject,
		},
		{
			name:   "task without subproject",
			mutate: func(e *timesheet.Entry) { e.SubprojectID = 0 },
			want:   ErrInvalidSelection,
		},
		{
			name:   "malformed date",
			mutate: func(e *timesheet.Entry) { e.Date = "20-01-2025" },
			want:   ErrInvalidEntry,
		},
		{
			name:   "unknown user",
			mutate: func(e *timesheet.Entry) { e.UserID = 99 },
			want:   ErrInvalidEntry,
		},
		{
			name:   "bad billable",
			mutate: func(e *timesheet.Entry) { e.Billable = "maybe" },
			want:   ErrInvalidEntry,
		},
		{
			name:   "end before start",
			mutate: func(e *timesheet.Entry) { e.StartTime, e.EndTime = "22:00", "02:00" },
			want:   ErrInvalidTimeRange,
		},
		{
			name:   "zero length",
			mutate: func(e *timesheet.Entry) { e.EndTime = e.StartTime },
			want:   ErrInvalidTimeRange,
		},
		{
			name:   "missing end",
			mutate: func(e *timesheet.Entry) { e.EndTime = "" },
			want:   ErrInvalidTimeRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, store, notifier := newTestService(t)
			input := candidate(3, "2025-01-20", "09:00", "10:00")
			tc.mutate(&input)

			_, err := service.Submit(context.Background(), input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			entries, _ := store.LoadEntries(context.Background())
			if len(entries) != 0 {
				t.Fatalf("expected no write on failure, got %d entries", len(entries))
			}
			if kinds := notifier.kinds(); len(kinds) != 1 || kinds[0] != notify.KindRejected {
				t.Fatalf("expected one rejected event, got %v", kinds)
			}
		})
	}
}

func TestSubmit_EmptyBillableDefaultsToNonBillable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store, _ := newTestService(t)

	input := candidate(3, "2025-01-20", "09:00", "10:00")
	input.Billable = ""
	id, err := service.Submit(ctx, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, _, _ := store.GetEntry(ctx, id)
	if stored.Billable != timesheet.NonBilled {
		t.Fatalf("expected non_billable default, got %q", stored.Billable)
	}
}

func TestSubmit_AdjacencyIsNotOverlap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _ := newTestService(t)

	for _, block := range [][2]string{{"09:00", "12:00"}, {"13:00", "17:00"}} {
		if _, err := service.Submit(ctx, candidate(3, "2025-01-20", block[0], block[1])); err != nil {
			t.Fatalf("seed %v: %v", block, err)
		}
	}

	_, err := service.Submit(ctx, candidate(3, "2025-01-20", "11:00", "13:00"))
	if !errors.Is(err, ErrOverlapDetected) {
		t.Fatalf("expected overlap, got %v", err)
	}
	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("expected *OverlapError, got %T", err)
	}
	if overlapErr.Existing.StartTime != "09:00" {
		t.Fatalf("expected conflict with the morning block, got %+v", overlapErr.Existing)
	}

	if _, err := service.Submit(ctx, candidate(3, "2025-01-20", "12:00", "13:00")); err != nil {
		t.Fatalf("expected adjacent block to be accepted: %v", err)
	}
}

func TestSubmit_OverlapIsScopedToUserAndDay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _ := newTestService(t)

	if _, err := service.Submit(ctx, candidate(3, "2025-01-20", "09:00", "12:00")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.Submit(ctx, candidate(4, "2025-01-20", "09:00", "12:00")); err != nil {
		t.Fatalf("other user same slot: %v", err)
	}
	if _, err := service.Submit(ctx, candidate(3, "2025-01-21", "09:00", "12:00")); err != nil {
		t.Fatalf("same user other day: %v", err)
	}
}

func TestSubmit_LockedDayRequiresNotes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for _, date := range []string{"2025-01-18", "2025-01-22"} {
		service, store, _ := newTestService(t)

		input := candidate(3, date, "09:00", "17:00")
		input.Notes = "   "
		if _, err := service.Submit(ctx, input); !errors.Is(err, ErrNotesRequiredOnLockedDay) {
			t.Fatalf("%s: expected notes required, got %v", date, err)
		}

		input.Notes = "Company holiday"
		id, err := service.Submit(ctx, input)
		if err != nil {
			t.Fatalf("%s: submit with notes: %v", date, err)
		}
		stored, _, _ := store.GetEntry(ctx, id)
		if stored.DurationSeconds != 0 || stored.StartTime != "00:00" || stored.EndTime != "00:00" {
			t.Fatalf("%s: expected zeroed locked entry, got %+v", date, stored)
		}
	}
}

func TestSubmit_LockedDaySkipsOverlapCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _ := newTestService(t)

	first := candidate(3, "2025-01-18", "", "")
	first.Notes = "weekend on-call"
	if _, err := service.Submit(ctx, first); err != nil {
		t.Fatalf("first locked entry: %v", err)
	}
	if _, err := service.Submit(ctx, first); err != nil {
		t.Fatalf("second locked entry: %v", err)
	}
}

func TestSubmit_DayTotalScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store, _ := newTestService(t)

	const day = "2025-01-21"
	for _, block := range [][2]string{{"09:00", "12:00"}, {"13:00", "17:00"}, {"12:00", "13:00"}} {
		if _, err := service.Submit(ctx, candidate(3, day, block[0], block[1])); err != nil {
			t.Fatalf("submit %v: %v", block, err)
		}
	}

	entries, _ := store.LoadEntries(ctx)
	total := 0
	for _, entry := range entries {
		if entry.UserID == 3 && entry.Date == day {
			total += entry.DurationSeconds
		}
	}
	if got := timeutil.FormatDuration(total); got != "8h 0m" {
		t.Fatalf("expected 8h 0m, got %s", got)
	}
}

func TestSubmit_IDsNeverReusedAfterClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "submit.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	policy, _ := calendar.NewPolicy(nil)
	service := NewService(store, policy, nil, nil)

	first, err := service.Submit(ctx, candidate(3, "2025-01-20", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	deleted, err := service.ClearDay(ctx, 3, "2025-01-20")
	if err != nil || deleted != 1 {
		t.Fatalf("clear day: deleted=%d err=%v", deleted, err)
	}
	second, err := service.Submit(ctx, candidate(3, "2025-01-20", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("resubmit after clear: %v", err)
	}
	if second == first {
		t.Fatalf("id %d reused", first)
	}
}

func TestUpdateNotes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store, _ := newTestService(t)

	id, err := service.Submit(ctx, candidate(3, "2025-01-20", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := service.UpdateNotes(ctx, id, " refined "); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	stored, _, _ := store.GetEntry(ctx, id)
	if stored.Notes != "refined" {
		t.Fatalf("expected trimmed notes, got %q", stored.Notes)
	}

	locked := candidate(3, "2025-01-19", "", "")
	locked.Notes = "holiday note"
	lockedID, err := service.Submit(ctx, locked)
	if err != nil {
		t.Fatalf("submit locked: %v", err)
	}
	if err := service.UpdateNotes(ctx, lockedID, ""); !errors.Is(err, ErrNotesRequiredOnLockedDay) {
		t.Fatalf("expected notes required, got %v", err)
	}
	if err := service.UpdateNotes(ctx, 404, "x"); !errors.Is(err, storage.ErrEntryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, notifier := newTestService(t)

	id, err := service.Submit(ctx, candidate(3, "2025-01-20", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := service.SetStatus(ctx, id, timesheet.StatusApproved, 4); !errors.Is(err, timesheet.ErrNotAuthorized) {
		t.Fatalf("expected team member to be refused, got %v", err)
	}
	if _, err := service.SetStatus(ctx, id, timesheet.StatusApproved, 42); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected unknown user, got %v", err)
	}

	updated, err := service.SetStatus(ctx, id, timesheet.StatusApproved, 2)
	if err != nil {
		t.Fatalf("manager approval: %v", err)
	}
	if updated.Status != timesheet.StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	if _, err := service.SetStatus(ctx, id, timesheet.StatusRequestedChanges, 1); !errors.Is(err, timesheet.ErrTransitionNotAllowed) {
		t.Fatalf("expected approved entries to be final, got %v", err)
	}

	kinds := notifier.kinds()
	if kinds[len(kinds)-1] != notify.KindStatusChanged {
		t.Fatalf("expected status change event, got %v", kinds)
	}
}

func TestClearDay_RejectsMalformedDate(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	if _, err := service.ClearDay(context.Background(), 3, "yesterday"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected invalid entry, got %v", err)
	}
}
