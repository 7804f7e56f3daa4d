package timesheet

import "strings"

// UnknownProject labels entries whose project no longer exists in the tree.
const UnknownProject = "Unknown Project"

type Project struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Subprojects []Subproject `json:"subProjects,omitempty"`
}

type Subproject struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks,omitempty"`
}

type Task struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Subtasks []Subtask `json:"subtasks,omitempty"`
}

type Subtask struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// DefaultProjects is the tree seeded when no task-management projects exist.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:   1,
			Name: "Website Redesign",
			Subprojects: []Subproject{
				{
					ID:   1,
					Name: "Frontend Development",
					Tasks: []Task{
						{ID: 1, Title: "Create React Components", Subtasks: []Subtask{{ID: 1, Title: "Header Component"}}},
						{ID: 2, Title: "Implement Responsive Design"},
					},
				},
				{
					ID:   2,
					Name: "Backend API",
					Tasks: []Task{
						{ID: 3, Title: "User Authentication"},
						{ID: 4, Title: "Database Schema"},
					},
				},
			},
		},
		{
			ID:   2,
			Name: "Mobile App",
			Subprojects: []Subproject{
				{ID: 3, Name: "iOS Development", Tasks: []Task{{ID: 5, Title: "UI Implementation"}}},
			},
		},
		{
			ID:          3,
			Name:        "Marketing Campaign",
			Subprojects: []Subproject{},
		},
	}
}

// ImportProjectNames keeps project and subproject names from a
// task-management tree and drops its tasks.
func ImportProjectNames(source []Project) []Project {
	out := make([]Project, 0, len(source))
	for _, project := range source {
		imported := Project{ID: project.ID, Name: project.Name}
		if project.Subprojects != nil {
			imported.Subprojects = make([]Subproject, 0, len(project.Subprojects))
			for _, sub := range project.Subprojects {
				imported.Subprojects = append(imported.Subprojects, Subproject{ID: sub.ID, Name: sub.Name, Tasks: []Task{}})
			}
		}
		out = append(out, imported)
	}
	return out
}

// Catalog answers label lookups over a project tree. Every lookup is total:
// ids that do not resolve produce placeholder labels instead of errors.
type Catalog struct {
	projects []Project
}

func NewCatalog(projects []Project) Catalog {
	return Catalog{projects: projects}
}

func (c Catalog) Projects() []Project {
	return c.projects
}

func (c Catalog) project(id int64) (Project, bool) {
	for _, project := range c.projects {
		if project.ID == id {
			return project, true
		}
	}
	return Project{}, false
}

func (c Catalog) subproject(projectID, subprojectID int64) (Subproject, bool) {
	project, ok := c.project(projectID)
	if !ok {
		return Subproject{}, false
	}
	for _, sub := range project.Subprojects {
		if sub.ID == subprojectID {
			return sub, true
		}
	}
	return Subproject{}, false
}

func (c Catalog) task(projectID, subprojectID, taskID int64) (Task, bool) {
	sub, ok := c.subproject(projectID, subprojectID)
	if !ok {
		return Task{}, false
	}
	for _, task := range sub.Tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return Task{}, false
}

func (c Catalog) ProjectName(projectID int64) string {
	if project, ok := c.project(projectID); ok {
		return project.Name
	}
	return UnknownProject
}

func (c Catalog) SubprojectName(projectID, subprojectID int64) string {
	if subprojectID == 0 {
		return ""
	}
	sub, _ := c.subproject(projectID, subprojectID)
	return sub.Name
}

func (c Catalog) TaskTitle(projectID, subprojectID, taskID int64) string {
	if taskID == 0 || subprojectID == 0 {
		return ""
	}
	task, _ := c.task(projectID, subprojectID, taskID)
	return task.Title
}

func (c Catalog) SubtaskTitle(projectID, subprojectID, taskID, subtaskID int64) string {
	if subtaskID == 0 || taskID == 0 || subprojectID == 0 {
		return ""
	}
	task, ok := c.task(projectID, subprojectID, taskID)
	if !ok {
		return ""
	}
	for _, subtask := range task.Subtasks {
		if subtask.ID == subtaskID {
			return subtask.Title
		}
	}
	return ""
}

// Path renders "Project > Subproject > Task" for entry, omitting levels that
// are unset or unknown.
func (c Catalog) Path(entry Entry) string {
	parts := []string{c.ProjectName(entry.ProjectID)}
	if name := c.SubprojectName(entry.ProjectID, entry.SubprojectID); name != "" {
		parts = append(parts, name)
	}
	if title := c.TaskTitle(entry.ProjectID, entry.SubprojectID, entry.TaskID); title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " > ")
}

// Contains reports whether sel resolves to existing nodes in the tree.
func (c Catalog) Contains(sel Selection) bool {
	switch sel.Level() {
	case SelectionNone:
		return true
	case SelectionProject:
		_, ok := c.project(sel.ProjectID())
		return ok
	case SelectionSubproject:
		_, ok := c.subproject(sel.ProjectID(), sel.SubprojectID())
		return ok
	case SelectionTask:
		_, ok := c.task(sel.ProjectID(), sel.SubprojectID(), sel.TaskID())
		return ok
	default:
		return c.SubtaskTitle(sel.ProjectID(), sel.SubprojectID(), sel.TaskID(), sel.SubtaskID()) != ""
	}
}
