package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/healpix-geo/internal/core/health"
	"github.com/mohammed-shakir/healpix-geo/internal/core/router"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newHandler(ready map[string]health.Pinger) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := router.New(log, router.Options{DefaultEllipsoid: ellipsoid.Named("sphere")})
	return Handler(log, Deps{API: api, Ready: ready, Metrics: promhttp.Handler()})
}

func TestHandler_Routes(t *testing.T) {
	srv := httptest.NewServer(newHandler(nil))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, resp.StatusCode)
		}
	}

	resp, err := http.Post(srv.URL+"/v1/zuniq/encode", "application/json", strings.NewReader(`{"cells":[0],"depth":0}`))
	if err != nil {
		t.Fatalf("POST encode: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("encode status=%d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestHandler_NotReady(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	srv := httptest.NewServer(newHandler(map[string]health.Pinger{"redis": down}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", resp.StatusCode)
	}
}
