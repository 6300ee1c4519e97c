package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"talentos.org/internal/ops"
)

func (a *API) handleIncidentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listIncidents(w, r)
	case http.MethodPost:
		a.reportIncident(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleIncidentResource serves /api/incidents/{id}/resolve.
func (a *API) handleIncidentResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/incidents/")
	id, found := strings.CutSuffix(rest, "/resolve")
	if !found || id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPut, http.MethodPost)
		return
	}
	a.resolveIncident(w, r, id)
}

func (a *API) reportIncident(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "incidents")
	if !ok {
		return
	}
	var req ops.IncidentInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	inc, err := a.svc.Ops.ReportIncident(r.Context(), req, user.ID)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	a.audit(r.Context(), "incident.report", "incident", inc.ID, map[string]string{
		"severity": inc.Severity,
	})
	writeJSON(w, http.StatusCreated, inc)
}

func (a *API) listIncidents(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "incidents"); !ok {
		return
	}
	filter := ops.IncidentFilter{
		TalentID: strings.TrimSpace(r.URL.Query().Get("talent_id")),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		Severity: strings.TrimSpace(r.URL.Query().Get("severity")),
	}
	items, err := a.svc.Ops.ListIncidents(r.Context(), filter)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type resolveIncidentRequest struct {
	Resolution string `json:"resolution"`
}

func (a *API) resolveIncident(w http.ResponseWriter, r *http.Request, id string) {
	user, ok := a.require(w, r, "incidents")
	if !ok {
		return
	}
	var req resolveIncidentRequest
	if err := decodeJSON(w, r, &req); err != nil && err.Error() != "request body is required" {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	inc, err := a.svc.Ops.ResolveIncident(r.Context(), id, req.Resolution, user.ID)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	a.audit(r.Context(), "incident.resolve", "incident", id, nil)
	writeJSON(w, http.StatusOK, inc)
}

func (a *API) handleWellbeingCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	user, ok := a.require(w, r, "wellbeing")
	if !ok {
		return
	}
	var req ops.WellbeingInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := a.svc.Ops.RecordWellbeing(r.Context(), req, user.ID)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	a.audit(r.Context(), "wellbeing.record", "wellbeing_entry", entry.ID, map[string]string{
		"talent_id": entry.TalentID,
	})
	writeJSON(w, http.StatusCreated, entry)
}

// handleWellbeingResource serves /api/wellbeing/{talent_id}.
func (a *API) handleWellbeingResource(w http.ResponseWriter, r *http.Request) {
	talentID := strings.TrimPrefix(r.URL.Path, "/api/wellbeing/")
	if talentID == "" || strings.Contains(talentID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.require(w, r, "wellbeing"); !ok {
		return
	}
	items, err := a.svc.Ops.WellbeingHistory(r.Context(), talentID)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleTasksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTasks(w, r)
	case http.MethodPost:
		a.createTask(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTaskResource serves /api/tasks/{id}/status.
func (a *API) handleTaskResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	id, found := strings.CutSuffix(rest, "/status")
	if !found || id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	a.setTaskStatus(w, r, id)
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "tasks")
	if !ok {
		return
	}
	var req ops.TaskInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	task, err := a.svc.Ops.CreateTask(r.Context(), req, user.ID)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	a.audit(r.Context(), "task.create", "task", task.ID, nil)
	writeJSON(w, http.StatusCreated, task)
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "tasks"); !ok {
		return
	}
	filter := ops.TaskFilter{
		TalentID:   strings.TrimSpace(r.URL.Query().Get("talent_id")),
		AssignedTo: strings.TrimSpace(r.URL.Query().Get("assigned_to")),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
	}
	items, err := a.svc.Ops.ListTasks(r.Context(), filter)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) setTaskStatus(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "tasks"); !ok {
		return
	}
	var req taskStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	task, err := a.svc.Ops.SetTaskStatus(r.Context(), id, req.Status)
	if err != nil {
		handleOpsError(w, r, err)
		return
	}
	a.audit(r.Context(), "task.status", "task", id, map[string]string{
		"status": req.Status,
	})
	writeJSON(w, http.StatusOK, task)
}

func handleOpsError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ops.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ops.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
