package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the forum's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "forum",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forum",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "resource", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forum",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "resource"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forum",
			Subsystem: "votes",
			Name:      "transitions_total",
			Help:      "Vote and bookmark transitions by entity kind, action and result.",
		},
		[]string{"kind", "action", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "forum",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of sessions held by the session store.",
		},
	)

	sweptSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forum",
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Sessions removed by the expiration sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		transitions,
		activeSessions,
		sweptSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with request counting and latency metrics.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		resource := Resource(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, resource, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	})
}

// RecordTransition counts a vote or bookmark transition attempt.
func RecordTransition(kind, action string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	transitions.WithLabelValues(kind, action, result).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func AddSweptSessions(n int) {
	sweptSessions.Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Resource reduces a request path to a low-cardinality label: the resource
// segment, skipping an /api prefix.
func Resource(raw string) string {
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	if len(parts) > 0 && parts[0] == "api" {
		parts = parts[1:]
	}
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	switch parts[0] {
	case "auth", "user", "category", "post", "comment":
		return "/" + parts[0]
	}
	return "other"
}
