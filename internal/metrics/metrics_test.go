package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.EventLogged("stress")
	m.EventDeleted()
	m.PublishFailed()
	m.ProgramChanged("started")
	m.ObserveHTTP("/api/health", http.MethodGet, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil metrics handler, got %d", rec.Code)
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.EventLogged("coffee")
	m.EventLogged("coffee")
	m.EventLogged("stress")
	m.PublishFailed()

	if got := testutil.ToFloat64(m.eventsLogged.WithLabelValues("coffee")); got != 2 {
		t.Errorf("coffee events = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.publishErrors); got != 1 {
		t.Errorf("publish errors = %v; want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/progress/today", http.MethodGet, 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `quitplan_http_requests_total{method="GET",route="/api/progress/today",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", rec.Body.String())
	}
}
