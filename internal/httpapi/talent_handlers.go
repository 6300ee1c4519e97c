package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"talentos.org/internal/talent"
)

func (a *API) handleTalentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTalents(w, r)
	case http.MethodPost:
		a.createTalent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTalentResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/talents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getTalent(w, r, id)
	case http.MethodPut:
		a.updateTalent(w, r, id)
	case http.MethodDelete:
		a.deleteTalent(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createTalent(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "talents")
	if !ok {
		return
	}
	var req talent.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := a.svc.Talents.Create(r.Context(), req, user.ID)
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	a.audit(r.Context(), "talent.create", "talent", created.ID, map[string]string{
		"display_id": created.DisplayID,
	})
	w.Header().Set("Location", "/api/talents/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listTalents(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "talents"); !ok {
		return
	}
	items, err := a.svc.Talents.List(r.Context())
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) getTalent(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "talents"); !ok {
		return
	}
	detail, err := a.svc.Talents.Get(r.Context(), id)
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	a.audit(r.Context(), "talent.pii_access", "talent", id, nil)
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) updateTalent(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "talents"); !ok {
		return
	}
	var req talent.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.svc.Talents.Update(r.Context(), id, req)
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	a.audit(r.Context(), "talent.update", "talent", id, nil)
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteTalent(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "talents"); !ok {
		return
	}
	if err := a.svc.Talents.Delete(r.Context(), id); err != nil {
		handleTalentError(w, r, err)
		return
	}
	a.audit(r.Context(), "talent.delete", "talent", id, nil)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// handleOnboarding serves /api/onboarding/{talent_id} and
// /api/onboarding/{talent_id}/step/{step_id}.
func (a *API) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/onboarding/")
	if rest == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getOnboarding(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "step":
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPut, http.MethodPost)
			return
		}
		a.completeOnboardingStep(w, r, parts[0], parts[2])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) getOnboarding(w http.ResponseWriter, r *http.Request, talentID string) {
	if _, ok := a.require(w, r, "onboarding"); !ok {
		return
	}
	record, err := a.svc.Talents.Onboarding(r.Context(), talentID)
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type completeStepRequest struct {
	Notes string `json:"notes"`
}

func (a *API) completeOnboardingStep(w http.ResponseWriter, r *http.Request, talentID, stepID string) {
	user, ok := a.require(w, r, "onboarding")
	if !ok {
		return
	}
	var req completeStepRequest
	if err := decodeJSON(w, r, &req); err != nil && err.Error() != "request body is required" {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	record, err := a.svc.Talents.CompleteStep(r.Context(), talentID, stepID, req.Notes, user.ID)
	if err != nil {
		handleTalentError(w, r, err)
		return
	}
	a.audit(r.Context(), "onboarding.step_complete", "talent", talentID, map[string]string{
		"step_id": stepID,
	})
	writeJSON(w, http.StatusOK, record)
}

func handleTalentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, talent.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, talent.ErrStepNotFound):
		writeError(w, r, http.StatusNotFound, "onboarding step not found")
	case errors.Is(err, talent.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "talent not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
