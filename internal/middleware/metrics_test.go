package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func metricsTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMetricsAuthMiddleware_DisabledPassesThrough(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")
	handler := mw.Handler(metricsTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with auth disabled, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_MissingCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prometheus", "secret")
	handler := mw.Handler(metricsTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestMetricsAuthMiddleware_WrongPassword(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prometheus", "secret")
	handler := mw.Handler(metricsTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prometheus", "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_ValidCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prometheus", "secret")
	handler := mw.Handler(metricsTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prometheus", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
