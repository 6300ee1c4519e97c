package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                      "/",
		"/metrics":                              "/metrics",
		"/api/talents":                          "/api/talents",
		"/api/talents/abc":                      "/api/talents/:id",
		"/api/personas/abc":                     "/api/personas/:id",
		"/api/consents/abc/revoke":              "/api/consents/:id/revoke",
		"/api/incidents/abc/resolve":            "/api/incidents/:id/resolve",
		"/api/tasks/abc/status":                 "/api/tasks/:id/status",
		"/api/wellbeing/abc":                    "/api/wellbeing/:id",
		"/api/onboarding/abc":                   "/api/onboarding/:id",
		"/api/onboarding/abc/step/id_verified":  "/api/onboarding/:id/step/:step_id",
		"/api/revenue/summary":                  "/api/revenue/summary",
		"/api/dashboard/stats?refresh=1":        "/api/dashboard/stats",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
