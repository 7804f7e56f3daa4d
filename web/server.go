// Package web serves a localhost-only JSON API over the timesheet services;
// it has no auth/CSRF protection in this mode.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gotimesheet/config"
	"gotimesheet/internal/timeutil"
	"gotimesheet/report"
	"gotimesheet/storage"
	"gotimesheet/submitter"
	"gotimesheet/timesheet"
)

type Server struct {
	store   storage.Store
	service *submitter.Service
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time
	handler http.Handler
}

type entryRequest struct {
	UserID       int64  `json:"userId"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	ProjectID    int64  `json:"projectId"`
	SubprojectID int64  `json:"subprojectId"`
	TaskID       int64  `json:"taskId"`
	SubtaskID    int64  `json:"subtaskId"`
	Notes        string `json:"notes"`
	Billable     string `json:"billable"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type statusRequest struct {
	Status  string `json:"status"`
	ActorID int64  `json:"actorId"`
}

type errorResponse struct {
	Error    string           `json:"error"`
	Message  string           `json:"message"`
	Existing *timesheet.Entry `json:"existing,omitempty"`
}

// NewServer wires the API routes. A nil logger discards request logs.
func NewServer(store storage.Store, service *submitter.Service, cfg config.Config, logger *slog.Logger) http.Handler {
	return newServer(store, service, cfg, logger)
}

func newServer(store storage.Store, service *submitter.Service, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	server := &Server{
		store:   store,
		service: service,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", server.handleUsers)
	mux.HandleFunc("GET /api/projects", server.handleProjects)
	mux.HandleFunc("GET /api/entries", server.handleEntries)
	mux.HandleFunc("POST /api/entries", server.handleEntryCreate)
	mux.HandleFunc("PATCH /api/entries/{id}/notes", server.handleEntryNotes)
	mux.HandleFunc("POST /api/entries/{id}/status", server.handleEntryStatus)
	mux.HandleFunc("DELETE /api/days/{date}", server.handleDayClear)
	mux.HandleFunc("GET /api/days/{date}/summary", server.handleDaySummary)
	mux.HandleFunc("GET /api/report", server.handleReport)
	mux.HandleFunc("GET /api/members", server.handleMembers)
	server.handler = withRequestID(logger, mux)

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.Projects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter report.Filter
	userID, err := parseOptionalID(query.Get("user"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	filter.UserID = userID

	projectID, err := parseOptionalID(query.Get("project"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	filter.ProjectID = projectID

	if role := timesheet.Role(strings.TrimSpace(query.Get("role"))); role != "" {
		if !role.Valid() {
			writeBadRequest(w, fmt.Errorf("unsupported role %q", role))
			return
		}
		filter.Role = role
	}

	switch {
	case strings.TrimSpace(query.Get("date")) != "":
		day, err := timeutil.ParseDate(strings.TrimSpace(query.Get("date")))
		if err != nil {
			writeBadRequest(w, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", query.Get("date")))
			return
		}
		filter.Window = &report.Window{Start: day, End: day}
	case strings.TrimSpace(query.Get("period")) != "":
		_, window, err := parseWindow(query.Get("period"), query.Get("ref"), s.now())
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		filter.Window = &window
	}

	entries, err := s.store.LoadEntries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.FilterEntries(entries, filter))
}

func (s *Server) handleEntryCreate(w http.ResponseWriter, r *http.Request) {
	var body entryRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}

	userID := body.UserID
	if userID == 0 {
		current, err := s.currentUser(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		userID = current.ID
	}

	candidate := timesheet.Entry{
		UserID:       userID,
		Date:         strings.TrimSpace(body.Date),
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		ProjectID:    body.ProjectID,
		SubprojectID: body.SubprojectID,
		TaskID:       body.TaskID,
		SubtaskID:    body.SubtaskID,
		Notes:        body.Notes,
		Billable:     timesheet.Billable(strings.TrimSpace(body.Billable)),
	}

	id, err := s.service.Submit(r.Context(), candidate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleEntryNotes(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var body notesRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := s.service.UpdateNotes(r.Context(), id, body.Notes); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var body statusRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}
	status := timesheet.Status(strings.TrimSpace(body.Status))
	if !status.Valid() {
		writeBadRequest(w, fmt.Errorf("unsupported status %q", body.Status))
		return
	}
	if body.ActorID <= 0 {
		writeBadRequest(w, fmt.Errorf("actorId must be > 0"))
		return
	}

	entry, err := s.service.SetStatus(r.Context(), id, status, body.ActorID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDayClear(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deleted, err := s.service.ClearDay(r.Context(), user.ID, r.PathValue("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.PathValue("date"))
	if _, err := timeutil.ParseDate(date); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date))
		return
	}

	user, err := s.userFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.store.LoadEntries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	catalog, err := s.catalog(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := BuildDayView(entries, user.ID, date, catalog, s.service.Policy(), s.cfg.Timeline.GapThresholdMinutes)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	period, window, err := parseWindow(query.Get("period"), query.Get("ref"), s.now())
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	groupBy := strings.ToLower(strings.TrimSpace(query.Get("group")))
	if groupBy == "" {
		groupBy = "project"
	}

	n := s.cfg.Report.TopN
	if raw := strings.TrimSpace(query.Get("top")); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, fmt.Errorf("top must be a positive integer"))
			return
		}
	}

	entries, err := s.store.LoadEntries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	catalog, err := s.catalog(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := BuildReportView(entries, window, period, groupBy, n, s.cfg.Report.TrendDays, users, catalog)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	period, window, err := parseWindow(query.Get("period"), query.Get("ref"), s.now())
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	entries, err := s.store.LoadEntries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, BuildMembersView(entries, window, period, users, s.now(), s.cfg.Report.OverdueAfterDays))
}

func (s *Server) catalog(r *http.Request) (timesheet.Catalog, error) {
	projects, err := s.store.Projects(r.Context())
	if err != nil {
		return timesheet.Catalog{}, err
	}
	return timesheet.NewCatalog(projects), nil
}

func (s *Server) currentUser(r *http.Request) (timesheet.User, error) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		return timesheet.User{}, err
	}
	user, ok := timesheet.CurrentUser(users)
	if !ok {
		return timesheet.User{}, submitter.ErrUnknownUser
	}
	return user, nil
}

// userFromQuery resolves the user query parameter, falling back to the
// acting user.
func (s *Server) userFromQuery(r *http.Request) (timesheet.User, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("user"))
	if raw == "" {
		return s.currentUser(r)
	}

	id, err := parsePositiveInt64(raw)
	if err != nil {
		return timesheet.User{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	users, err := s.store.Users(r.Context())
	if err != nil {
		return timesheet.User{}, err
	}
	user, ok := timesheet.FindUser(users, id)
	if !ok {
		return timesheet.User{}, fmt.Errorf("%w %d", submitter.ErrUnknownUser, id)
	}
	return user, nil
}

var errBadRequest = errors.New("bad request")

// errorStatus maps a service error to its HTTP status and stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, storage.ErrEntryNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, timesheet.ErrNotAuthorized):
		return http.StatusForbidden, "not_authorized"
	case errors.Is(err, timesheet.ErrTransitionNotAllowed):
		return http.StatusConflict, "transition_not_allowed"
	case errors.Is(err, submitter.ErrMissingProject):
		return http.StatusUnprocessableEntity, "missing_project"
	case errors.Is(err, submitter.ErrInvalidSelection):
		return http.StatusUnprocessableEntity, "invalid_selection"
	case errors.Is(err, submitter.ErrUnknownUser):
		return http.StatusUnprocessableEntity, "unknown_user"
	case errors.Is(err, submitter.ErrInvalidEntry):
		return http.StatusUnprocessableEntity, "invalid_entry"
	case errors.Is(err, submitter.ErrInvalidTimeRange):
		return http.StatusUnprocessableEntity, "invalid_time_range"
	case errors.Is(err, submitter.ErrOverlapDetected):
		return http.StatusUnprocessableEntity, "overlap_detected"
	case errors.Is(err, submitter.ErrNotesRequiredOnLockedDay):
		return http.StatusUnprocessableEntity, "notes_required_on_locked_day"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	body := errorResponse{Error: code, Message: err.Error()}
	var overlap *submitter.OverlapError
	if errors.As(err, &overlap) {
		existing := overlap.Existing
		body.Existing = &existing
	}
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
