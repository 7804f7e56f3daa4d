package storage

import (
	"context"
	"errors"

	"gotimesheet/timesheet"
)

var ErrEntryNotFound = errors.New("time entry not found")

// Collection names in the key-value table.
const (
	CollectionUsers                  = "users"
	CollectionProjects               = "projects"
	CollectionTaskManagementProjects = "tm_projects"
)

// Store is the persistence boundary for the timesheet. Reads return the full
// collection; callers filter in memory.
type Store interface {
	LoadEntries(ctx context.Context) ([]timesheet.Entry, error)
	// AppendEntry persists entry under a fresh id and returns it. Ids are
	// never reused, even after deletes.
	AppendEntry(ctx context.Context, entry timesheet.Entry) (int64, error)
	GetEntry(ctx context.Context, id int64) (timesheet.Entry, bool, error)
	ClearEntries(ctx context.Context, userID int64, date string) (int64, error)
	UpdateNotes(ctx context.Context, id int64, notes string) error
	UpdateStatus(ctx context.Context, id int64, status timesheet.Status) error

	// Users seeds the default roster on first access.
	Users(ctx context.Context) ([]timesheet.User, error)
	// Projects imports names from the task-management collection when it
	// exists and otherwise seeds the default tree.
	Projects(ctx context.Context) ([]timesheet.Project, error)
	SaveTaskManagementProjects(ctx context.Context, projects []timesheet.Project) error

	Close() error
}
