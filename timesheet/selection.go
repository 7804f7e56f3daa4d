package timesheet

import "errors"

var (
	ErrMissingProject   = errors.New("project is required")
	ErrInvalidSelection = errors.New("invalid project selection")
)

type SelectionLevel int

const (
	SelectionNone SelectionLevel = iota
	SelectionProject
	SelectionSubproject
	SelectionTask
	SelectionSubtask
)

func (l SelectionLevel) String() string {
	switch l {
	case SelectionProject:
		return "project"
	case SelectionSubproject:
		return "subproject"
	case SelectionTask:
		return "task"
	case SelectionSubtask:
		return "subtask"
	default:
		return "none"
	}
}

// Selection is a path into the project tree. Each level requires the one
// above it, so a task without a subproject cannot be built.
type Selection struct {
	level        SelectionLevel
	projectID    int64
	subprojectID int64
	taskID       int64
	subtaskID    int64
}

// NewSelection builds a selection from optional ids where zero means absent.
func NewSelection(projectID, subprojectID, taskID, subtaskID int64) (Selection, error) {
	if projectID < 0 || subprojectID < 0 || taskID < 0 || subtaskID < 0 {
		return Selection{}, ErrInvalidSelection
	}
	if projectID == 0 {
		if subprojectID != 0 || taskID != 0 || subtaskID != 0 {
			return Selection{}, ErrMissingProject
		}
		return Selection{}, nil
	}
	if subprojectID == 0 && (taskID != 0 || subtaskID != 0) {
		return Selection{}, ErrInvalidSelection
	}
	if taskID == 0 && subtaskID != 0 {
		return Selection{}, ErrInvalidSelection
	}

	sel := Selection{
		projectID:    projectID,
		subprojectID: subprojectID,
		taskID:       taskID,
		subtaskID:    subtaskID,
	}
	switch {
	case subtaskID != 0:
		sel.level = SelectionSubtask
	case taskID != 0:
		sel.level = SelectionTask
	case subprojectID != 0:
		sel.level = SelectionSubproject
	default:
		sel.level = SelectionProject
	}
	return sel, nil
}

func (s Selection) Level() SelectionLevel { return s.level }
func (s Selection) ProjectID() int64      { return s.projectID }
func (s Selection) SubprojectID() int64   { return s.subprojectID }
func (s Selection) TaskID() int64         { return s.taskID }
func (s Selection) SubtaskID() int64      { return s.subtaskID }

// Apply copies the selection ids onto entry.
func (s Selection) Apply(entry *Entry) {
	entry.ProjectID = s.projectID
	entry.SubprojectID = s.subprojectID
	entry.TaskID = s.taskID
	entry.SubtaskID = s.subtaskID
}
