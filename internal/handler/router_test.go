package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hakivo/podcastd/pkg/middleware"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	f := newHandlerFixture(t)
	rt := NewRouter(f.handler, nil, nil, middleware.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET, POST, OPTIONS",
		AllowedHeaders: "Content-Type",
	})
	return rt.Handler()
}

func TestRouterMethodGuards(t *testing.T) {
	h := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/submit-job"},
		{http.MethodPost, "/job-status/some-job"},
		{http.MethodGet, "/process-queue"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d, want 405", c.method, c.path, rec.Code)
		}
	}
}

func TestRouterPreflight(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/submit-job", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for preflight", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS origin header")
	}
}
