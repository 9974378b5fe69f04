// Package metrics owns the Prometheus registry exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "condo"

const (
	ResultImported = "imported"
	ResultSkipped  = "skipped"
	ResultConflict = "conflict"
	ResultFailed   = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	reservations   *prometheus.CounterVec
	calendarEvents *prometheus.CounterVec
	jobProcessed   *prometheus.CounterVec
	jobLatency     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		reservations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "reservations_total", Help: "Reservation attempts by source and outcome."},
			[]string{"source", "result"},
		),
		calendarEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "calendar_events_total", Help: "Imported calendar events by platform and outcome."},
			[]string{"platform", "result"},
		),
		jobProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "job_processed_total", Help: "Rows touched by background jobs."},
			[]string{"job"},
		),
		jobLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "job_duration_seconds",
				Help:    "Background job run duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpLatency, m.reservations, m.calendarEvents, m.jobProcessed, m.jobLatency,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, dur time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func (m *Metrics) ObserveReservation(source string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}

	m.reservations.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObserveCalendarEvent(platform, result string) {
	m.calendarEvents.WithLabelValues(platform, result).Inc()
}

func (m *Metrics) ObserveJob(job string, processed int, dur time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	m.jobProcessed.WithLabelValues(job).Add(float64(processed))
	m.jobLatency.WithLabelValues(job, status).Observe(dur.Seconds())
}
