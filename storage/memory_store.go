package storage

import (
	"context"
	"slices"
	"sync"

	"gotimesheet/timesheet"
)

// MemoryStore keeps all collections in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	entries    []timesheet.Entry
	lastID     int64
	users      []timesheet.User
	projects   []timesheet.Project
	tmProjects []timesheet.Project
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadEntries(_ context.Context) ([]timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

func (m *MemoryStore) AppendEntry(_ context.Context, entry timesheet.Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	entry.ID = m.lastID
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *MemoryStore) GetEntry(_ context.Context, id int64) (timesheet.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, true, nil
		}
	}
	return timesheet.Entry{}, false, nil
}

func (m *MemoryStore) ClearEntries(_ context.Context, userID int64, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(entry timesheet.Entry) bool {
		return entry.UserID == userID && entry.Date == date
	})
	return int64(before - len(m.entries)), nil
}

func (m *MemoryStore) UpdateNotes(_ context.Context, id int64, notes string) error {
	return m.update(id, func(entry *timesheet.Entry) { entry.Notes = notes })
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id int64, status timesheet.Status) error {
	return m.update(id, func(entry *timesheet.Entry) { entry.Status = status })
}

func (m *MemoryStore) update(id int64, apply func(*timesheet.Entry)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id {
			apply(&m.entries[i])
			return nil
		}
	}
	return ErrEntryNotFound
}

func (m *MemoryStore) Users(_ context.Context) ([]timesheet.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users == nil {
		m.users = timesheet.DefaultUsers()
	}
	return slices.Clone(m.users), nil
}

func (m *MemoryStore) Projects(_ context.Context) ([]timesheet.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tmProjects != nil {
		return timesheet.ImportProjectNames(m.tmProjects), nil
	}
	if m.projects == nil {
		m.projects = timesheet.DefaultProjects()
	}
	return slices.Clone(m.projects), nil
}

func (m *MemoryStore) SaveTaskManagementProjects(_ context.Context, projects []timesheet.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if projects == nil {
		projects = []timesheet.Project{}
	}
	m.tmProjects = slices.Clone(projects)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
