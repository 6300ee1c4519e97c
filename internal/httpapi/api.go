// Package httpapi exposes the service over HTTP. Routing is a plain
// net/http mux with manual path parsing for resource ids.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"talentos.org/internal/audit"
	"talentos.org/internal/auth"
	"talentos.org/internal/consent"
	"talentos.org/internal/dashboard"
	"talentos.org/internal/obs"
	"talentos.org/internal/ops"
	"talentos.org/internal/persona"
	"talentos.org/internal/revenue"
	"talentos.org/internal/talent"
)

// ReadyProbe checks backing-store readiness (for example a DB ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Services bundles everything the HTTP layer dispatches into.
type Services struct {
	Auth      *auth.Service
	Talents   *talent.Service
	Personas  *persona.Service
	Consents  *consent.Service
	Revenue   *revenue.Service
	Ops       *ops.Service
	Dashboard *dashboard.Service
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	svc        Services

	rateBurst  int
	ratePerSec int
}

// New wires the full route table.
func New(rp ReadyProbe, version string, svc Services) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		svc:        svc,
		rateBurst:  50,
		ratePerSec: 25,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())
	a.mux.HandleFunc("/api/", a.Info)

	a.mux.HandleFunc("/api/auth/register", a.handleRegister)
	a.mux.HandleFunc("/api/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/auth/me", a.handleMe)

	a.mux.HandleFunc("/api/talents", a.handleTalentsCollection)
	a.mux.HandleFunc("/api/talents/", a.handleTalentResource)
	a.mux.HandleFunc("/api/onboarding/", a.handleOnboarding)

	a.mux.HandleFunc("/api/personas", a.handlePersonasCollection)
	a.mux.HandleFunc("/api/personas/", a.handlePersonaResource)

	a.mux.HandleFunc("/api/consents", a.handleConsentsCollection)
	a.mux.HandleFunc("/api/consents/", a.handleConsentResource)

	a.mux.HandleFunc("/api/revenue", a.handleRevenueCollection)
	a.mux.HandleFunc("/api/revenue/summary", a.handleRevenueSummary)

	a.mux.HandleFunc("/api/incidents", a.handleIncidentsCollection)
	a.mux.HandleFunc("/api/incidents/", a.handleIncidentResource)

	a.mux.HandleFunc("/api/wellbeing", a.handleWellbeingCollection)
	a.mux.HandleFunc("/api/wellbeing/", a.handleWellbeingResource)

	a.mux.HandleFunc("/api/tasks", a.handleTasksCollection)
	a.mux.HandleFunc("/api/tasks/", a.handleTaskResource)

	a.mux.HandleFunc("/api/dashboard/stats", a.handleDashboardStats)
	a.mux.HandleFunc("/api/dashboard/alerts", a.handleDashboardAlerts)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "talentos-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "talentos-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// identity returns the authenticated user or fails the request.
func (a *API) identity(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

// require gates a handler behind a capability for the acting role.
func (a *API) require(w http.ResponseWriter, r *http.Request, capability string) (*auth.User, bool) {
	user, ok := a.identity(w, r)
	if !ok {
		return nil, false
	}
	if err := auth.Require(user.Role, capability); err != nil {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return nil, false
	}
	return user, true
}

func (a *API) audit(ctx context.Context, event, resource, id string, meta map[string]string) {
	fields := map[string]any{
		"resource":    resource,
		"resource_id": id,
	}
	for k, v := range meta {
		fields[k] = v
	}
	ctx = audit.WithRequestID(ctx, RequestIDFromContext(ctx))
	_ = audit.LogEvent(ctx, event, fields)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
