package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gotimesheet/config"
	"gotimesheet/internal/timeutil"
	"gotimesheet/notify"
	"gotimesheet/storage"
	"gotimesheet/submitter"
	"gotimesheet/timesheet"
)

// app bundles what every data command needs. Callers must Close it.
type app struct {
	cfg     *config.Config
	store   *storage.SQLiteStore
	service *submitter.Service
	logger  *slog.Logger
}

func openApp() (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(verbose)
	return &app{
		cfg:     cfg,
		store:   store,
		service: submitter.NewService(store, policy, newNotifier(cfg.Notify, logger), logger),
		logger:  logger,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newNotifier(cfg config.NotifyConfig, logger *slog.Logger) notify.Notifier {
	notifiers := notify.Multi{notify.NewSlogNotifier(logger)}
	if cfg.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier("gotimesheet"))
	}
	return notifiers
}

// resolveUser returns the user with id, or the acting user when id is 0.
func resolveUser(users []timesheet.User, id int64) (timesheet.User, error) {
	if id == 0 {
		user, ok := timesheet.CurrentUser(users)
		if !ok {
			return timesheet.User{}, fmt.Errorf("no users configured")
		}
		return user, nil
	}
	user, ok := timesheet.FindUser(users, id)
	if !ok {
		return timesheet.User{}, fmt.Errorf("%w %d", submitter.ErrUnknownUser, id)
	}
	return user, nil
}

// resolveDate validates a YYYY-MM-DD flag value; empty means today.
func resolveDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return timeutil.FormatDate(now), nil
	}
	day, err := timeutil.ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return timeutil.FormatDate(day), nil
}

func (a *app) catalog(ctx context.Context) (timesheet.Catalog, error) {
	projects, err := a.store.Projects(ctx)
	if err != nil {
		return timesheet.Catalog{}, err
	}
	return timesheet.NewCatalog(projects), nil
}

func parseEntryID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", value)
	}
	return id, nil
}
