package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"
)

// Event describes a persisted entry worth telling someone about.
type Event struct {
	Kind  string
	Entry timesheet.Entry
	Err   error
}

const (
	KindSubmitted     = "submitted"
	KindStatusChanged = "status_changed"
	KindDayCleared    = "day_cleared"
	KindRejected      = "rejected"
)

// Message renders the human readable notification text.
func (e Event) Message() string {
	switch e.Kind {
	case KindStatusChanged:
		return fmt.Sprintf("Entry %d on %s is now %s", e.Entry.ID, e.Entry.Date, e.Entry.Status)
	case KindDayCleared:
		return fmt.Sprintf("Entries for %s cleared", e.Entry.Date)
	case KindRejected:
		return fmt.Sprintf("Entry for %s rejected: %v", e.Entry.Date, e.Err)
	default:
		if e.Entry.DurationSeconds == 0 {
			return fmt.Sprintf("Notes saved for %s", e.Entry.Date)
		}
		return fmt.Sprintf("Time entry added: %s on %s", timeutil.FormatDuration(e.Entry.DurationSeconds), e.Entry.Date)
	}
}

// Notifier receives events after they are persisted. Failures never roll
// back the write that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// SlogNotifier writes events to a structured logger.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(ctx context.Context, event Event) error {
	if event.Err != nil {
		n.logger.WarnContext(ctx, event.Message(),
			"kind", event.Kind,
			"user_id", event.Entry.UserID,
			"date", event.Entry.Date,
			"error", event.Err,
		)
		return nil
	}
	n.logger.InfoContext(ctx, event.Message(),
		"kind", event.Kind,
		"entry_id", event.Entry.ID,
		"user_id", event.Entry.UserID,
		"date", event.Entry.Date,
		"duration_seconds", event.Entry.DurationSeconds,
	)
	return nil
}

// DesktopNotifier raises an OS notification per event.
type DesktopNotifier struct {
	title string
	send  func(title, message string, icon any) error
}

func NewDesktopNotifier(title string) *DesktopNotifier {
	if title == "" {
		title = "gotimesheet"
	}
	return &DesktopNotifier{title: title, send: beeep.Notify}
}

func (n *DesktopNotifier) Notify(_ context.Context, event Event) error {
	if err := n.send(n.title, event.Message(), ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
