package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.RecordUpstreamRequest("list_calls", 200)
	m.RecordUpstreamRequest("list_calls", 200)
	m.RecordUpstreamError()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheInvalidation(3)
	m.RecordNormalized(5)
	m.RecordAggregation(4, 1, time.Millisecond)
	m.RecordWebhookEvent("end-of-call-report")
	m.RecordHTTPRequest("/api/calls", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`opsmind_upstream_requests_total{endpoint="list_calls",status="200"} 2`,
		"opsmind_upstream_errors_total 1",
		"opsmind_call_cache_hits_total 1",
		"opsmind_call_cache_invalidations_total 3",
		"opsmind_records_normalized_total 5",
		"opsmind_records_aggregated_total 4",
		"opsmind_records_skipped_total 1",
		`opsmind_webhook_events_total{type="end-of-call-report"} 1`,
		`opsmind_http_requests_total{route="/api/calls",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q\n%s", want, body)
		}
	}

	if got := m.HTTPRequests("/api/calls", 200); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestGetIsSingleton(t *testing.T) {
	if Get() != Get() {
		t.Error("Get should return the same instance")
	}
}
