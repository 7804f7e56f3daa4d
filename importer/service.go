package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gotimesheet/internal/classify"
	"gotimesheet/submitter"
	"gotimesheet/timesheet"
)

// Submitter is the validated write path rows are pushed through.
type Submitter interface {
	Submit(ctx context.Context, candidate timesheet.Entry) (int64, error)
	Check(ctx context.Context, candidate timesheet.Entry) (timesheet.Entry, error)
	Entries(ctx context.Context) ([]timesheet.Entry, error)
}

type RowError struct {
	File string
	Row  int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.File, e.Row, e.Err)
}

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsSkipped    int
	Accepted       int
	Duplicates     int
	Rejected       []RowError
	IDs            []int64
}

type RunOptions struct {
	Format string
	DryRun bool
	MapOptions
}

type candidateRow struct {
	row   int
	entry timesheet.Entry
	err   error
}

// Run reads every file and submits each row on its own. A rejected row does
// not stop the import; rows that exactly repeat an existing entry are counted
// as duplicates instead of rejections. With DryRun nothing is written.
func Run(ctx context.Context, paths []string, service Submitter, options RunOptions) (*Result, error) {
	known, err := service.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing entries: %w", err)
	}
	result := &Result{Rejected: make([]RowError, 0), IDs: make([]int64, 0)}
	planned := make([]timesheet.Entry, 0)

	for _, path := range paths {
		rows, skipped, err := readCandidates(path, options)
		if err != nil {
			return nil, err
		}
		result.FilesProcessed++
		result.RowsRead += len(rows) + skipped
		result.RowsSkipped += skipped

		for _, row := range rows {
			if row.err != nil {
				result.Rejected = append(result.Rejected, RowError{File: path, Row: row.row, Err: row.err})
				continue
			}

			// Locked days skip the overlap check, so repeats are caught on the
			// entry as it would be stored.
			checked, checkErr := service.Check(ctx, row.entry)
			if checkErr == nil && hasEquivalent(known, checked) {
				result.Duplicates++
				continue
			}

			if options.DryRun {
				err := checkErr
				if err == nil {
					if hit, ok := classify.FindOverlap(planned, checked); ok {
						err = &submitter.OverlapError{Existing: hit}
					}
				}
				if err != nil {
					recordFailure(result, path, row, err)
					continue
				}
				planned = append(planned, checked)
				known = append(known, checked)
				result.Accepted++
				continue
			}

			id, err := service.Submit(ctx, row.entry)
			if err != nil {
				recordFailure(result, path, row, err)
				continue
			}
			known = append(known, checked)
			result.Accepted++
			result.IDs = append(result.IDs, id)
		}
	}

	return result, nil
}

func hasEquivalent(entries []timesheet.Entry, candidate timesheet.Entry) bool {
	for _, entry := range entries {
		if classify.Equivalent(entry, candidate) {
			return true
		}
	}
	return false
}

func recordFailure(result *Result, path string, row candidateRow, err error) {
	var overlapErr *submitter.OverlapError
	if errors.As(err, &overlapErr) && classify.Equivalent(overlapErr.Existing, row.entry) {
		result.Duplicates++
		return
	}
	result.Rejected = append(result.Rejected, RowError{File: path, Row: row.row, Err: err})
}

func readCandidates(path string, options RunOptions) ([]candidateRow, int, error) {
	format, err := InferFormat(path, options.Format)
	if err != nil {
		return nil, 0, err
	}

	if format == "json" {
		entries, err := ReadEntriesJSON(path)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]candidateRow, 0, len(entries))
		for i, entry := range entries {
			if entry.UserID == 0 {
				entry.UserID = options.DefaultUserID
			}
			rows = append(rows, candidateRow{row: i + 1, entry: entry})
		}
		return rows, 0, nil
	}

	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, 0, err
	}
	records, err := reader.Read(path)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]candidateRow, 0, len(records))
	skipped := 0
	for _, record := range records {
		entry, ok, err := MapRecord(record, options.MapOptions)
		if err == nil && !ok {
			skipped++
			continue
		}
		rows = append(rows, candidateRow{row: record.RowNumber, entry: entry, err: err})
	}
	return rows, skipped, nil
}

// ReadEntriesJSON reads an array of entries in the persisted JSON layout.
func ReadEntriesJSON(path string) ([]timesheet.Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries file %s: %w", path, err)
	}
	var entries []timesheet.Entry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("decode entries file %s: %w", path, err)
	}
	return entries, nil
}

// LoadTaskManagementProjects reads a project tree exported by the task
// management module.
func LoadTaskManagementProjects(path string) ([]timesheet.Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file %s: %w", path, err)
	}

	var projects []timesheet.Project
	if err := json.Unmarshal(content, &projects); err != nil {
		return nil, fmt.Errorf("decode projects file %s: %w", path, err)
	}

	seen := make(map[int64]struct{}, len(projects))
	for i, project := range projects {
		if project.ID <= 0 {
			return nil, fmt.Errorf("projects[%d]: id must be > 0", i)
		}
		if _, ok := seen[project.ID]; ok {
			return nil, fmt.Errorf("projects[%d]: duplicate id %d", i, project.ID)
		}
		seen[project.ID] = struct{}{}
	}
	return projects, nil
}
