package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gotimesheet/internal/timeutil"
	"gotimesheet/timesheet"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL CHECK(duration_seconds >= 0),
	project_id INTEGER NOT NULL,
	subproject_id INTEGER NOT NULL DEFAULT 0,
	task_id INTEGER NOT NULL DEFAULT 0,
	subtask_id INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	billable TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS entries_user_date ON entries(user_id, date);

CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendEntry(ctx context.Context, entry timesheet.Entry) (int64, error) {
	const insertStmt = `
INSERT INTO entries (
	user_id,
	role,
	date,
	start_time,
	end_time,
	duration_seconds,
	project_id,
	subproject_id,
	task_id,
	subtask_id,
	notes,
	status,
	billable
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := s.db.ExecContext(
		ctx,
		insertStmt,
		entry.UserID,
		string(entry.Role),
		entry.Date,
		entry.StartTime,
		entry.EndTime,
		entry.DurationSeconds,
		entry.ProjectID,
		entry.SubprojectID,
		entry.TaskID,
		entry.SubtaskID,
		entry.Notes,
		string(entry.Status),
		string(entry.Billable),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

const selectEntryColumns = `
SELECT
	id,
	user_id,
	role,
	date,
	start_time,
	end_time,
	duration_seconds,
	project_id,
	subproject_id,
	task_id,
	subtask_id,
	notes,
	status,
	billable
FROM entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (timesheet.Entry, error) {
	var (
		entry    timesheet.Entry
		role     string
		status   string
		billable string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&role,
		&entry.Date,
		&entry.StartTime,
		&entry.EndTime,
		&entry.DurationSeconds,
		&entry.ProjectID,
		&entry.SubprojectID,
		&entry.TaskID,
		&entry.SubtaskID,
		&entry.Notes,
		&status,
		&billable,
	); err != nil {
		return timesheet.Entry{}, err
	}
	entry.Role = timesheet.Role(role)
	entry.Status = timesheet.Status(status)
	entry.Billable = timesheet.Billable(billable)
	return entry, nil
}

// LoadEntries returns every stored entry. Rows whose accounting day does not
// parse are skipped rather than failing the whole read.
func (s *SQLiteStore) LoadEntries(ctx context.Context) ([]timesheet.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntryColumns+` ORDER BY date, start_time, id;`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timesheet.Entry, 0, 256)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if _, err := timeutil.ParseDate(entry.Date); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// GetEntry returns one entry by ID.
func (s *SQLiteStore) GetEntry(ctx context.Context, id int64) (timesheet.Entry, bool, error) {
	if id <= 0 {
		return timesheet.Entry{}, false, fmt.Errorf("entry id must be > 0")
	}

	entry, err := scanEntry(s.db.QueryRowContext(ctx, selectEntryColumns+` WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timesheet.Entry{}, false, nil
		}
		return timesheet.Entry{}, false, fmt.Errorf("query entry %d: %w", id, err)
	}
	return entry, true, nil
}

func (s *SQLiteStore) ClearEntries(ctx context.Context, userID int64, date string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id = ? AND date = ?;`, userID, date)
	if err != nil {
		return 0, fmt.Errorf("clear entries for user %d on %s: %w", userID, date, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func (s *SQLiteStore) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return s.updateColumn(ctx, id, "notes", notes)
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id int64, status timesheet.Status) error {
	return s.updateColumn(ctx, id, "status", string(status))
}

func (s *SQLiteStore) updateColumn(ctx context.Context, id int64, column, value string) error {
	if id <= 0 {
		return fmt.Errorf("entry id must be > 0")
	}

	// column is always one of the literals above.
	res, err := s.db.ExecContext(ctx, `UPDATE entries SET `+column+` = ? WHERE id = ?;`, value, id)
	if err != nil {
		return fmt.Errorf("update entry %d %s: %w", id, column, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) Users(ctx context.Context) ([]timesheet.User, error) {
	var users []timesheet.User
	found, err := s.readCollection(ctx, CollectionUsers, &users)
	if err != nil {
		return nil, err
	}
	if found {
		return users, nil
	}

	users = timesheet.DefaultUsers()
	if err := s.writeCollection(ctx, CollectionUsers, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SQLiteStore) Projects(ctx context.Context) ([]timesheet.Project, error) {
	var tmProjects []timesheet.Project
	found, err := s.readCollection(ctx, CollectionTaskManagementProjects, &tmProjects)
	if err != nil {
		return nil, err
	}
	if found {
		return timesheet.ImportProjectNames(tmProjects), nil
	}

	var projects []timesheet.Project
	found, err = s.readCollection(ctx, CollectionProjects, &projects)
	if err != nil {
		return nil, err
	}
	if found {
		return projects, nil
	}

	projects = timesheet.DefaultProjects()
	if err := s.writeCollection(ctx, CollectionProjects, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *SQLiteStore) SaveTaskManagementProjects(ctx context.Context, projects []timesheet.Project) error {
	return s.writeCollection(ctx, CollectionTaskManagementProjects, projects)
}

// readCollection decodes the named payload into out. A missing or
// unparseable payload reports found=false so callers fall back to defaults.
func (s *SQLiteStore) readCollection(ctx context.Context, name string, out any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM collections WHERE name = ?;`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read collection %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *SQLiteStore) writeCollection(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}
	const upsert = `
INSERT INTO collections (name, payload) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload;`
	if _, err := s.db.ExecContext(ctx, upsert, name, string(payload)); err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	return nil
}
