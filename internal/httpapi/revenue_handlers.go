package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"talentos.org/internal/revenue"
)

func (a *API) handleRevenueCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listRevenue(w, r)
	case http.MethodPost:
		a.recordRevenue(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) recordRevenue(w http.ResponseWriter, r *http.Request) {
	user, ok := a.require(w, r, "revenue")
	if !ok {
		return
	}
	var req revenue.Input
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := a.svc.Revenue.Record(r.Context(), req, user.ID)
	if err != nil {
		handleRevenueError(w, r, err)
		return
	}
	a.audit(r.Context(), "revenue.record", "revenue_entry", entry.ID, map[string]string{
		"talent_id": entry.TalentID,
		"platform":  entry.Platform,
		"amount":    strconv.FormatFloat(entry.Amount, 'f', 2, 64),
	})
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) listRevenue(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.require(w, r, "revenue"); !ok {
		return
	}
	filter := revenue.Filter{
		TalentID:  strings.TrimSpace(r.URL.Query().Get("talent_id")),
		PersonaID: strings.TrimSpace(r.URL.Query().Get("persona_id")),
		Platform:  strings.TrimSpace(r.URL.Query().Get("platform")),
	}
	items, err := a.svc.Revenue.List(r.Context(), filter)
	if err != nil {
		handleRevenueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleRevenueSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.require(w, r, "revenue"); !ok {
		return
	}
	summary, err := a.svc.Revenue.Summarize(r.Context())
	if err != nil {
		handleRevenueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func handleRevenueError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, revenue.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, revenue.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "revenue entry not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
