package timesheet

import "errors"

type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team_member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleTeamMember:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusSubmitted        Status = "submitted"
	StatusApproved         Status = "approved"
	StatusRequestedChanges Status = "requested_changes"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRequestedChanges:
		return true
	default:
		return false
	}
}

type Billable string

const (
	Billed    Billable = "billable"
	NonBilled Billable = "non_billable"
)

func (b Billable) Valid() bool {
	return b == Billed || b == NonBilled
}

// LockedClock is the start and end time stored for notes-only entries on
// locked days.
const LockedClock = "00:00"

// Entry is one recorded block of work. DurationSeconds is computed once at
// creation and trusted by every aggregation afterwards.
type Entry struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"userId" validate:"gt=0"`
	Role            Role     `json:"role" validate:"oneof=owner manager team_member"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationSeconds int      `json:"durationSeconds" validate:"gte=0"`
	ProjectID       int64    `json:"projectId"`
	SubprojectID    int64    `json:"subprojectId,omitempty"`
	TaskID          int64    `json:"taskId,omitempty"`
	SubtaskID       int64    `json:"subtaskId,omitempty"`
	Notes           string   `json:"notes"`
	Status          Status   `json:"status" validate:"oneof=submitted approved requested_changes"`
	Billable        Billable `json:"billable" validate:"oneof=billable non_billable"`
}

// Selection returns the validated project hierarchy the entry points at.
func (e Entry) Selection() (Selection, error) {
	return NewSelection(e.ProjectID, e.SubprojectID, e.TaskID, e.SubtaskID)
}

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// DefaultUsers is the roster seeded on first access.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "Alice Johnson", Role: RoleOwner},
		{ID: 2, Name: "Bob Smith", Role: RoleManager},
		{ID: 3, Name: "Carol Davis", Role: RoleTeamMember},
		{ID: 4, Name: "David Wilson", Role: RoleTeamMember},
		{ID: 5, Name: "Eva Brown", Role: RoleTeamMember},
	}
}

// CurrentUser returns the acting user: the first team member, or the first
// user when no team member exists.
func CurrentUser(users []User) (User, bool) {
	for _, user := range users {
		if user.Role == RoleTeamMember {
			return user, true
		}
	}
	if len(users) > 0 {
		return users[0], true
	}
	return User{}, false
}

func FindUser(users []User, id int64) (User, bool) {
	for _, user := range users {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}

var (
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrNotAuthorized        = errors.New("user may not review this entry")
)

// Transition validates a review action on entry performed by actor and
// returns the new status. Only submitted entries can be reviewed, and only
// into approved or requested_changes. Owners may review any entry; managers
// may review everyone's entries except their own.
func Transition(entry Entry, to Status, actor User) (Status, error) {
	if entry.Status != StatusSubmitted {
		return entry.Status, ErrTransitionNotAllowed
	}
	if to != StatusApproved && to != StatusRequestedChanges {
		return entry.Status, ErrTransitionNotAllowed
	}

	switch actor.Role {
	case RoleOwner:
	case RoleManager:
		if actor.ID == entry.UserID {
			return entry.Status, ErrNotAuthorized
		}
	default:
		return entry.Status, ErrNotAuthorized
	}

	return to, nil
}
