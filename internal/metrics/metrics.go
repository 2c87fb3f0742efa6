// Package metrics exposes Prometheus collectors for wishlist activity and
// the HTTP surface. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wishlist"

// Metrics groups every collector the service updates.
type Metrics struct {
	gatherer prometheus.Gatherer

	itemsCreated       prometheus.Counter
	itemsUpdated       prometheus.Counter
	itemsDeleted       prometheus.Counter
	deletionsScheduled prometheus.Counter
	deletionsUndone    prometheus.Counter
	pendingDeletions   prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to keep the default registry clean.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		itemsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_created_total",
			Help:      "Wishlist items added.",
		}),
		itemsUpdated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_updated_total",
			Help:      "Wishlist items edited.",
		}),
		itemsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_deleted_total",
			Help:      "Wishlist items removed from the store.",
		}),
		deletionsScheduled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_scheduled_total",
			Help:      "Deletions started with an undo window.",
		}),
		deletionsUndone: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_undone_total",
			Help:      "Deletions canceled before the undo window expired.",
		}),
		pendingDeletions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_deletions",
			Help:      "Deletions waiting for their undo window to expire.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ItemCreated() {
	if m != nil {
		m.itemsCreated.Inc()
	}
}

func (m *Metrics) ItemUpdated() {
	if m != nil {
		m.itemsUpdated.Inc()
	}
}

func (m *Metrics) ItemDeleted() {
	if m != nil {
		m.itemsDeleted.Inc()
	}
}

func (m *Metrics) DeletionScheduled() {
	if m != nil {
		m.deletionsScheduled.Inc()
	}
}

func (m *Metrics) DeletionUndone() {
	if m != nil {
		m.deletionsUndone.Inc()
	}
}

// SetPendingDeletions records the current size of the undo queue.
func (m *Metrics) SetPendingDeletions(n int) {
	if m != nil {
		m.pendingDeletions.Set(float64(n))
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
