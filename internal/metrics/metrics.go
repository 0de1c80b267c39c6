package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Upstream platform metrics
	upstreamRequests map[string]map[int]int64 // endpoint -> status -> count
	UpstreamErrors   int64

	// Call cache metrics
	CacheHits          int64
	CacheMisses        int64
	CacheInvalidations int64

	// Normalization / aggregation metrics
	RecordsNormalized       int64
	RecordsAggregated       int64
	RecordsSkipped          int64
	AggregationRunsTotal    int64
	lastAggregationDuration time.Duration

	// Webhook metrics
	webhookEvents map[string]int64 // message type -> count

	// HTTP metrics
	httpRequestsTotal    map[string]map[int]int64 // route -> status -> count
	httpRequestDurations map[string][]float64     // route -> durations

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates an empty metrics set; tests use it to avoid the singleton.
func New() *Metrics {
	return &Metrics{
		upstreamRequests:     make(map[string]map[int]int64),
		webhookEvents:        make(map[string]int64),
		httpRequestsTotal:    make(map[string]map[int]int64),
		httpRequestDurations: make(map[string][]float64),
		startTime:            time.Now(),
	}
}

// RecordUpstreamRequest counts one platform API response
func (m *Metrics) RecordUpstreamRequest(endpoint string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upstreamRequests[endpoint] == nil {
		m.upstreamRequests[endpoint] = make(map[int]int64)
	}
	m.upstreamRequests[endpoint][statusCode]++
}

// RecordUpstreamError counts a platform call that failed before or after the response
func (m *Metrics) RecordUpstreamError() {
	m.mu.Lock()
	m.UpstreamErrors++
	m.mu.Unlock()
}

// RecordCacheHit increments the call cache hit counter
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	m.CacheHits++
	m.mu.Unlock()
}

// RecordCacheMiss increments the call cache miss counter
func (m *Metrics) RecordCacheMiss() {
	m.mu.Lock()
	m.CacheMisses++
	m.mu.Unlock()
}

// RecordCacheInvalidation adds n dropped cache entries
func (m *Metrics) RecordCacheInvalidation(n int) {
	m.mu.Lock()
	m.CacheInvalidations += int64(n)
	m.mu.Unlock()
}

// RecordNormalized adds n normalized call records
func (m *Metrics) RecordNormalized(n int) {
	m.mu.Lock()
	m.RecordsNormalized += int64(n)
	m.mu.Unlock()
}

// RecordAggregation records one daily-series build
func (m *Metrics) RecordAggregation(used, skipped int, duration time.Duration) {
	m.mu.Lock()
	m.AggregationRunsTotal++
	m.RecordsAggregated += int64(used)
	m.RecordsSkipped += int64(skipped)
	m.lastAggregationDuration = duration
	m.mu.Unlock()
}

// RecordWebhookEvent counts a platform webhook by message type
func (m *Metrics) RecordWebhookEvent(messageType string) {
	m.mu.Lock()
	m.webhookEvents[messageType]++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[route] == nil {
		m.httpRequestsTotal[route] = make(map[int]int64)
	}
	m.httpRequestsTotal[route][statusCode]++

	// Keep last 100 durations for percentile calculation
	if len(m.httpRequestDurations[route]) >= 100 {
		m.httpRequestDurations[route] = m.httpRequestDurations[route][1:]
	}
	m.httpRequestDurations[route] = append(m.httpRequestDurations[route], duration.Seconds())
}

// HTTPRequests returns the request count for a route and status
func (m *Metrics) HTTPRequests(route string, statusCode int) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.httpRequestsTotal[route][statusCode]
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("opsmind_uptime_seconds", time.Since(m.startTime).Seconds())

		// Upstream metrics
		for _, endpoint := range sortedKeys(m.upstreamRequests) {
			for status, count := range m.upstreamRequests[endpoint] {
				write("opsmind_upstream_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
		write("opsmind_upstream_errors_total", m.UpstreamErrors)

		// Cache metrics
		write("opsmind_call_cache_hits_total", m.CacheHits)
		write("opsmind_call_cache_misses_total", m.CacheMisses)
		write("opsmind_call_cache_invalidations_total", m.CacheInvalidations)

		// Normalization / aggregation metrics
		write("opsmind_records_normalized_total", m.RecordsNormalized)
		write("opsmind_records_aggregated_total", m.RecordsAggregated)
		write("opsmind_records_skipped_total", m.RecordsSkipped)
		write("opsmind_aggregation_runs_total", m.AggregationRunsTotal)
		write("opsmind_aggregation_duration_seconds", m.lastAggregationDuration.Seconds())

		// Webhook metrics
		for msgType, count := range m.webhookEvents {
			write("opsmind_webhook_events_total", count, "type", msgType)
		}

		// HTTP metrics
		for _, route := range sortedKeys(m.httpRequestsTotal) {
			for status, count := range m.httpRequestsTotal[route] {
				write("opsmind_http_requests_total", count, "route", route, "status", strconv.Itoa(status))
			}
		}
	}
}

func sortedKeys(m map[string]map[int]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
