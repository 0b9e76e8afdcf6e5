// Package observability provides Prometheus metrics for the planner API.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProjectionsTotal  *prometheus.CounterVec
	ProjectionMonths  *prometheus.HistogramVec
	NonAmortizingRuns prometheus.Counter
	CacheLookups      *prometheus.CounterVec
	HistoryPurged     prometheus.Counter
	PlanEmailsSent    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "gullak"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		ProjectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Debt payoff projections by strategy",
		}, []string{"strategy"}),
		ProjectionMonths: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_months",
			Help:      "Simulated months until payoff",
			Buckets:   []float64{12, 24, 36, 60, 120, 180, 240, 300, 360},
		}, []string{"run"}),
		NonAmortizingRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_non_amortizing_total",
			Help:      "Projections that hit the month cap with balances outstanding",
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome",
		}, []string{"result"}),
		HistoryPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_purged_total",
			Help:      "History entries removed by retention",
		}),
		PlanEmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_emails_total",
			Help:      "Plan e-mails by outcome",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProjection(strategy string, baselineMonths, optimizedMonths int, amortizes bool) {
	if m == nil {
		return
	}
	m.ProjectionsTotal.WithLabelValues(strategy).Inc()
	m.ProjectionMonths.WithLabelValues("baseline").Observe(float64(baselineMonths))
	m.ProjectionMonths.WithLabelValues("optimized").Observe(float64(optimizedMonths))
	if !amortizes {
		m.NonAmortizingRuns.Inc()
	}
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObservePurge(n int64) {
	if m == nil {
		return
	}
	m.HistoryPurged.Add(float64(n))
}

func (m *Metrics) ObserveEmail(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.PlanEmailsSent.WithLabelValues("error").Inc()
		return
	}
	m.PlanEmailsSent.WithLabelValues("sent").Inc()
}
