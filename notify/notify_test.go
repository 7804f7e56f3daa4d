package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gotimesheet/timesheet"
)

func TestEventMessage(t *testing.T) {
	t.Parallel()

	submitted := Event{Kind: KindSubmitted, Entry: timesheet.Entry{Date: "2025-01-20", DurationSeconds: 5400}}
	if got := submitted.Message(); got != "Time entry added: 1h 30m on 2025-01-20" {
		t.Fatalf("unexpected submitted message %q", got)
	}

	notesOnly := Event{Kind: KindSubmitted, Entry: timesheet.Entry{Date: "2025-01-18"}}
	if got := notesOnly.Message(); got != "Notes saved for 2025-01-18" {
		t.Fatalf("unexpected notes message %q", got)
	}

	rejected := Event{Kind: KindRejected, Entry: timesheet.Entry{Date: "2025-01-20"}, Err: errors.New("overlap")}
	if got := rejected.Message(); got != "Entry for 2025-01-20 rejected: overlap" {
		t.Fatalf("unexpected rejected message %q", got)
	}

	review := Event{Kind: KindStatusChanged, Entry: timesheet.Entry{ID: 7, Date: "2025-01-20", Status: timesheet.StatusApproved}}
	if got := review.Message(); got != "Entry 7 on 2025-01-20 is now approved" {
		t.Fatalf("unexpected review message %q", got)
	}
}

func TestSlogNotifierWritesStructuredRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	notifier := NewSlogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := notifier.Notify(context.Background(), Event{Kind: KindSubmitted, Entry: timesheet.Entry{ID: 3, UserID: 4, Date: "2025-01-20", DurationSeconds: 3600}})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"kind=submitted", "entry_id=3", "user_id=4", "duration_seconds=3600"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output %q", want, out)
		}
	}
}

func TestDesktopNotifierUsesSender(t *testing.T) {
	t.Parallel()

	var gotTitle, gotMessage string
	notifier := NewDesktopNotifier("")
	notifier.send = func(title, message string, _ any) error {
		gotTitle, gotMessage = title, message
		return nil
	}

	if err := notifier.Notify(context.Background(), Event{Kind: KindDayCleared, Entry: timesheet.Entry{Date: "2025-01-20"}}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotTitle != "gotimesheet" || gotMessage != "Entries for 2025-01-20 cleared" {
		t.Fatalf("unexpected notification %q / %q", gotTitle, gotMessage)
	}
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Event) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	counter := notifierFunc(func(context.Context, Event) error {
		calls++
		return nil
	})

	err := Multi{failingNotifier{err: boom}, nil, counter}.Notify(context.Background(), Event{Kind: KindSubmitted})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected remaining notifiers to run, got %d calls", calls)
	}
}

type notifierFunc func(context.Context, Event) error

func (f notifierFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }
