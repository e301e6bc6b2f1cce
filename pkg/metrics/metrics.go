package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - счётчики сервиса. Методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	assignmentsCreated  prometheus.Counter
	assignmentsReturned prometheus.Counter
	assignmentConflicts *prometheus.CounterVec
	auditFailures       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		assignmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_assignments_created_total",
			Help: "Assignments opened.",
		}),
		assignmentsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_assignments_returned_total",
			Help: "Assignments returned.",
		}),
		assignmentConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_assignment_conflicts_total",
			Help: "Rejected assignment operations by reason.",
		}, []string{"reason"}),
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_audit_failures_total",
			Help: "Audit entries that could not be written.",
		}, []string{"table"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.assignmentsCreated,
		m.assignmentsReturned,
		m.assignmentConflicts,
		m.auditFailures,
	)
	return m
}

func (m *Metrics) AssignmentCreated() {
	if m != nil {
		m.assignmentsCreated.Inc()
	}
}

func (m *Metrics) AssignmentReturned() {
	if m != nil {
		m.assignmentsReturned.Inc()
	}
}

func (m *Metrics) AssignmentConflict(reason string) {
	if m != nil {
		m.assignmentConflicts.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) AuditFailure(table string) {
	if m != nil {
		m.auditFailures.WithLabelValues(table).Inc()
	}
}

// Handler - эндпоинт /metrics
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			code := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					code = he.Code
				} else if code < http.StatusBadRequest {
					code = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(code)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
