// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the reminder dispatch pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listo_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listo_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listo_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	RemindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listo_reminders_sent_total",
			Help: "Reminder emails successfully delivered, by category.",
		},
		[]string{"category"},
	)

	ReminderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listo_reminder_errors_total",
			Help: "Reminder delivery failures, by category.",
		},
		[]string{"category"},
	)

	SchedulerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listo_scheduler_job_duration_seconds",
			Help:    "Background job execution time, by job name.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"job"},
	)
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request with the counter, histogram and
// in-flight gauge. The route label uses the chi route pattern, not the raw
// path, to keep label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveJob records the duration of one background job run.
func ObserveJob(job string, started time.Time) {
	SchedulerJobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}
