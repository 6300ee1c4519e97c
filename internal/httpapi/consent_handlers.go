package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"talentos.org/internal/consent"
)

func (a *API) handleConsentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listConsents(w, r)
	case http.MethodPost:
		a.createConsent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleConsentResource serves /api/consents/{id} and /api/consents/{id}/revoke.
func (a *API) handleConsentResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/consents/")
	if rest == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if id, found := strings.CutSuffix(rest, "/revoke"); found {
		if id == "" || strings.Contains(id, "/") {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPut, http.MethodPost)
			return
		}
		a.revokeConsent(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.getConsent(w, r, rest)
}

func (a *API) createConsent(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "consent")
	if !ok {
		return
	}
	var req consent.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := a.svc.Consents.Create(r.Context(), req, user.ID)
	if err != nil {
		handleConsentError(w, r, err)
		return
	}
	a.audit(r.Context(), "consent.create", "consent", created.ID, map[string]string{
		"talent_id": created.TalentID,
		"scope":     created.Scope,
	})
	w.Header().Set("Location", "/api/consents/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listConsents(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "consent:view"); !ok {
		return
	}
	filter := consent.Filter{
		TalentID: strings.TrimSpace(r.URL.Query().Get("talent_id")),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
	}
	items, err := a.svc.Consents.List(r.Context(), filter)
	if err != nil {
		handleConsentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) getConsent(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := a.require(w, r, "consent:view"); !ok {
		return
	}
	c, err := a.svc.Consents.Get(r.Context(), id)
	if err != nil {
		handleConsentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) revokeConsent(w http.ResponseWriter, r *http.Request, id string) {
	user, ok := a.require(w, r, "consent")
	if !ok {
		return
	}
	rev, err := a.svc.Consents.Revoke(r.Context(), id, user.ID)
	if err != nil {
		handleConsentError(w, r, err)
		return
	}
	a.audit(r.Context(), "consent.revoke", "consent", id, map[string]string{
		"content_flagged": strconv.Itoa(rev.ContentFlagged),
	})
	writeJSON(w, http.StatusOK, rev)
}

func handleConsentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, consent.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, consent.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "consent not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
