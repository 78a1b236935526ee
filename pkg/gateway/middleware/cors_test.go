package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no origin passes through", func(t *testing.T) {
		handler := CORS(DefaultCORSConfig())(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/models", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("expected no CORS headers without an Origin")
		}
	})

	t.Run("wildcard origin allowed", func(t *testing.T) {
		handler := CORS(DefaultCORSConfig())(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/models", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("preflight answered directly", func(t *testing.T) {
		handler := CORS(DefaultCORSConfig())(okHandler)

		req := httptest.NewRequest(http.MethodOptions, "/models/download", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204 for preflight, got %d", rec.Code)
		}
	})

	t.Run("disallowed origin gets no headers", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"http://allowed.example"}
		handler := CORS(cfg)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/models", nil)
		req.Header.Set("Origin", "http://other.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("expected no CORS headers for a disallowed origin")
		}
	})

	t.Run("wildcard subdomain", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"*.example.com"}
		handler := CORS(cfg)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/models", nil)
		req.Header.Set("Origin", "http://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.example.com" {
			t.Errorf("expected subdomain origin allowed, got %q", got)
		}
	})
}
