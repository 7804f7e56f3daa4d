package submitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"gotimesheet/calendar"
	"gotimesheet/internal/classify"
	"gotimesheet/internal/timeutil"
	"gotimesheet/notify"
	"gotimesheet/storage"
	"gotimesheet/timesheet"
)

var (
	ErrMissingProject           = timesheet.ErrMissingProject
	ErrInvalidSelection         = timesheet.ErrInvalidSelection
	ErrInvalidEntry             = errors.New("invalid time entry")
	ErrInvalidTimeRange         = errors.New("start and end time must form a positive range")
	ErrOverlapDetected          = errors.New("time entry overlaps an existing entry")
	ErrNotesRequiredOnLockedDay = errors.New("notes are required on locked days")
	ErrUnknownUser              = errors.New("unknown user")
)

// OverlapError carries the stored entry a rejected candidate collided with.
type OverlapError struct {
	Existing timesheet.Entry
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"%s: entry %d %s-%s on %s",
		ErrOverlapDetected,
		e.Existing.ID,
		e.Existing.StartTime,
		e.Existing.EndTime,
		e.Existing.Date,
	)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlapDetected
}

// Service is the single write path for time entries. Every mutation runs
// under one mutex so that validation and append are atomic in-process.
type Service struct {
	mu       sync.Mutex
	store    storage.Store
	policy   calendar.Policy
	notifier notify.Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(store storage.Store, policy calendar.Policy, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:    store,
		policy:   policy,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) Policy() calendar.Policy {
	return s.policy
}

// Submit validates candidate and appends it. The returned id is assigned by
// the store. On failure nothing is written.
func (s *Service) Submit(ctx context.Context, candidate timesheet.Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.prepare(ctx, candidate)
	if err != nil {
		s.emit(ctx, notify.Event{Kind: notify.KindRejected, Entry: candidate, Err: err})
		return 0, err
	}

	id, err := s.store.AppendEntry(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("append entry: %w", err)
	}
	entry.ID = id

	s.emit(ctx, notify.Event{Kind: notify.KindSubmitted, Entry: entry})
	return id, nil
}

// Check runs the same validation as Submit without writing and returns the
// entry as it would be stored.
func (s *Service) Check(ctx context.Context, candidate timesheet.Entry) (timesheet.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepare(ctx, candidate)
}

// Entries returns every stored entry.
func (s *Service) Entries(ctx context.Context) ([]timesheet.Entry, error) {
	return s.store.LoadEntries(ctx)
}

func (s *Service) prepare(ctx context.Context, candidate timesheet.Entry) (timesheet.Entry, error) {
	entry := candidate
	entry.ID = 0
	entry.Notes = strings.TrimSpace(entry.Notes)

	if entry.ProjectID == 0 {
		return timesheet.Entry{}, ErrMissingProject
	}
	if _, err := entry.Selection(); err != nil {
		return timesheet.Entry{}, err
	}

	if entry.Billable == "" {
		entry.Billable = timesheet.NonBilled
	}
	if entry.Role == "" {
		role, err := s.roleOf(ctx, entry.UserID)
		if err != nil {
			return timesheet.Entry{}, err
		}
		entry.Role = role
	}
	entry.Status = timesheet.StatusSubmitted
	entry.DurationSeconds = 0
	if err := s.validate.Struct(entry); err != nil {
		return timesheet.Entry{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if s.policy.IsLocked(entry.Date) {
		entry.StartTime = timesheet.LockedClock
		entry.EndTime = timesheet.LockedClock
		if entry.Notes == "" {
			return timesheet.Entry{}, ErrNotesRequiredOnLockedDay
		}
		return entry, nil
	}

	start, startOK := timeutil.NormalizeClock(entry.StartTime)
	end, endOK := timeutil.NormalizeClock(entry.EndTime)
	if !startOK || !endOK {
		return timesheet.Entry{}, ErrInvalidTimeRange
	}
	entry.StartTime, entry.EndTime = start, end
	entry.DurationSeconds = timeutil.Duration(entry.StartTime, entry.EndTime)
	if entry.DurationSeconds <= 0 {
		return timesheet.Entry{}, ErrInvalidTimeRange
	}

	existing, err := s.store.LoadEntries(ctx)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("load entries: %w", err)
	}
	if hit, ok := classify.FindOverlap(existing, entry); ok {
		return timesheet.Entry{}, &OverlapError{Existing: hit}
	}

	return entry, nil
}

func (s *Service) roleOf(ctx context.Context, userID int64) (timesheet.Role, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return "", fmt.Errorf("load users: %w", err)
	}
	user, ok := timesheet.FindUser(users, userID)
	if !ok {
		return "", fmt.Errorf("%w: %w %d", ErrInvalidEntry, ErrUnknownUser, userID)
	}
	return user.Role, nil
}

// ClearDay removes every entry of userID on date and returns how many were
// deleted.
func (s *Service) ClearDay(ctx context.Context, userID int64, date string) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("%w: user id must be > 0", ErrInvalidEntry)
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.store.ClearEntries(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.emit(ctx, notify.Event{Kind: notify.KindDayCleared, Entry: timesheet.Entry{UserID: userID, Date: date}})
	}
	return deleted, nil
}

// UpdateNotes replaces the notes of one entry. Entries on locked days keep
// requiring notes.
func (s *Service) UpdateNotes(ctx context.Context, id int64, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return storage.ErrEntryNotFound
	}

	notes = strings.TrimSpace(notes)
	if notes == "" && s.policy.IsLocked(entry.Date) {
		return ErrNotesRequiredOnLockedDay
	}
	return s.store.UpdateNotes(ctx, id, notes)
}

// SetStatus applies a review decision by actorID to the entry.
func (s *Service) SetStatus(ctx context.Context, id int64, to timesheet.Status, actorID int64) (timesheet.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("load users: %w", err)
	}
	actor, ok := timesheet.FindUser(users, actorID)
	if !ok {
		return timesheet.Entry{}, fmt.Errorf("%w %d", ErrUnknownUser, actorID)
	}

	entry, found, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return timesheet.Entry{}, err
	}
	if !found {
		return timesheet.Entry{}, storage.ErrEntryNotFound
	}

	next, err := timesheet.Transition(entry, to, actor)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("%s -> %s: %w", entry.Status, to, err)
	}
	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return timesheet.Entry{}, err
	}
	entry.Status = next

	s.emit(ctx, notify.Event{Kind: notify.KindStatusChanged, Entry: entry})
	return entry, nil
}

func (s *Service) emit(ctx context.Context, event notify.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "notification failed", "kind", event.Kind, "error", err)
	}
}
