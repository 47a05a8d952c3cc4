package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLiveness_Handler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	Liveness()(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q want text/plain", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body=%q want ok", got)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness_Handler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		deps   map[string]Pinger
		status int
		body   string
	}{
		{"no deps", nil, http.StatusOK, `"status":"ready"`},
		{"store up", map[string]Pinger{"redis": ok}, http.StatusOK, `"redis":"ok"`},
		{"store down", map[string]Pinger{"redis": down}, http.StatusServiceUnavailable, `"redis":"connection refused"`},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		Readiness(tc.deps, time.Second)(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rr.Code != tc.status {
			t.Fatalf("%s: status=%d want %d", tc.name, rr.Code, tc.status)
		}
		if !strings.Contains(rr.Body.String(), tc.body) {
			t.Fatalf("%s: body=%s want substring %s", tc.name, rr.Body.String(), tc.body)
		}
	}
}
