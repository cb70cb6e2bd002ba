package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects API request metrics on a private registry so several
// instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	notices  *prometheus.CounterVec
}

// New registers the loanform collectors on a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loanform",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Loan API requests by operation and status code.",
	}, []string{"operation", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "loanform",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Loan API request latency by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	notices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loanform",
		Subsystem: "ui",
		Name:      "notices_total",
		Help:      "Notices shown to the user by kind.",
	}, []string{"kind"})

	registry.MustRegister(requests, latency, notices)

	return &Recorder{
		registry: registry,
		requests: requests,
		latency:  latency,
		notices:  notices,
	}
}

// ObserveRequest records one finished request. status is 0 for transport
// failures and is reported as "error".
func (r *Recorder) ObserveRequest(operation string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.requests.WithLabelValues(operation, label).Inc()
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveNotice counts a notice of the given kind.
func (r *Recorder) ObserveNotice(kind string) {
	if r == nil {
		return
	}
	r.notices.WithLabelValues(kind).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
