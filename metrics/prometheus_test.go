package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServeMuxPath(t *testing.T) {
	m := NewMetrics("test")
	m.OpsTotal.WithLabelValues("dense", "query").Inc()

	mux := m.serveMux("/internal/metrics")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("configured path returned %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "range_ops_total") {
		t.Fatalf("metrics output missing range_ops_total: %s", body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unmounted path returned %d, want 404", rec.Code)
	}
}

func TestServeMuxDefaultPath(t *testing.T) {
	m := NewMetrics("test")
	rec := httptest.NewRecorder()
	m.serveMux("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("default path returned %d", rec.Code)
	}
}
