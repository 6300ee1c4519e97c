package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"talentos.org/internal/persona"
)

func (a *API) handlePersonasCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listPersonas(w, r)
	case http.MethodPost:
		a.createPersona(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handlePersonaResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/personas/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getPersona(w, r, id)
	case http.MethodPut:
		a.updatePersona(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) createPersona(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "personas")
	if !ok {
		return
	}
	var req persona.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := a.svc.Personas.Create(r.Context(), req, user.ID)
	if err != nil {
		handlePersonaError(w, r, err)
		return
	}
	a.audit(r.Context(), "persona.create", "persona", created.ID, map[string]string{
		"talent_id": created.TalentID,
	})
	w.Header().Set("Location", "/api/personas/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listPersonas(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "personas:view"); !ok {
		return
	}
	filter := persona.Filter{TalentID: strings.TrimSpace(r.URL.Query().Get("talent_id"))}
	items, err := a.svc.Personas.List(r.Context(), filter)
	if err != nil {
		handlePersonaError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) getPersona(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "personas:view"); !ok {
		return
	}
	p, err := a.svc.Personas.Get(r.Context(), id)
	if err != nil {
		handlePersonaError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updatePersona(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "personas"); !ok {
		return
	}
	var req persona.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.svc.Personas.Update(r.Context(), id, req)
	if err != nil {
		handlePersonaError(w, r, err)
		return
	}
	a.audit(r.Context(), "persona.update", "persona", id, nil)
	writeJSON(w, http.StatusOK, updated)
}

func handlePersonaError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, persona.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, persona.ErrTalentNotFound):
		writeError(w, r, http.StatusNotFound, "talent not found")
	case errors.Is(err, persona.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "persona not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
