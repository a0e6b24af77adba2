package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Metrics bundles prometheus collectors used by the dashboard.
// Реализует port.JobRecorder и port.HealthGauge
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	ProjectsByHealth   *prometheus.GaugeVec
	JobRunsTotal       *prometheus.CounterVec
	JobDurationSec     *prometheus.HistogramVec
	AuthFailures       prometheus.Counter
	RateLimitDropped   prometheus.Counter
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "niche_http_requests_total",
			Help: "Total number of dashboard HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "niche_http_request_duration_seconds",
			Help:    "Dashboard request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		ProjectsByHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "niche_projects",
			Help: "Number of projects per health status as of the last sweep.",
		}, []string{"health"}),
		JobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "niche_job_runs_total",
			Help: "Total number of background job runs.",
		}, []string{"job", "result"}),
		JobDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "niche_job_duration_seconds",
			Help:    "Background job duration in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"job"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "niche_auth_failures_total",
			Help: "Total number of failed logins and rejected credentials.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "niche_ratelimit_dropped_total",
			Help: "Total number of requests dropped by rate limiter.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.ProjectsByHealth,
		m.JobRunsTotal,
		m.JobDurationSec,
		m.AuthFailures,
		m.RateLimitDropped,
	)

	return m
}

// NewDefault создает registry с go/process коллекторами
func NewDefault() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

// Handler отдает /metrics для своего registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveJob учитывает запуск фоновой задачи
func (m *Metrics) ObserveJob(job string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, result).Inc()
	m.JobDurationSec.WithLabelValues(job).Observe(seconds)
}

// SetHealthCounts выставляет gauge по всем статусам (отсутствующие = 0)
func (m *Metrics) SetHealthCounts(counts map[string]int) {
	for _, status := range valueobject.AllHealthStatuses() {
		m.ProjectsByHealth.WithLabelValues(status.String()).Set(float64(counts[status.String()]))
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := routePattern(r)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// routePattern берет шаблон chi ("/api/v1/projects/{id}"), чтобы не плодить метки по id
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
