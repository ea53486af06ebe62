// Package metrics exports order and stock health counters to Prometheus.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "foodhub"

// Metrics records order engine outcomes and hub stock health.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	created    prometheus.Counter
	prepared   prometheus.Counter
	confirmed  prometheus.Counter
	rejected   *prometheus.CounterVec
	pickupWait prometheus.Histogram
	stockRows  *prometheus.GaugeVec
}

// New registers the metrics on reg. A nil reg returns a no-op Metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders accepted by the order engine.",
		}),
		prepared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_prepared_total",
			Help:      "Orders marked as prepared by a hub.",
		}),
		confirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pickups_confirmed_total",
			Help:      "Orders confirmed as picked up.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_rejected_total",
			Help:      "Order engine operations rejected, by operation and failure code.",
		}, []string{"operation", "code"}),
		pickupWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pickup_wait_seconds",
			Help:      "Time between order creation and pickup confirmation.",
			Buckets:   []float64{60, 300, 900, 1800, 3600, 3 * 3600, 12 * 3600, 24 * 3600, 72 * 3600},
		}),
		stockRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_rows",
			Help:      "Stock rows per hub and health status, as of the last supplier view.",
		}, []string{"provider", "status"}),
	}
	reg.MustRegister(m.created, m.prepared, m.confirmed, m.rejected, m.pickupWait, m.stockRows)
	return m
}

// OrderCreated counts an accepted order.
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
}

// OrderPrepared counts an order marked prepared.
func (m *Metrics) OrderPrepared() {
	if m == nil {
		return
	}
	m.prepared.Inc()
}

// PickupConfirmed counts a confirmed pickup and how long the order waited.
func (m *Metrics) PickupConfirmed(wait time.Duration) {
	if m == nil {
		return
	}
	m.confirmed.Inc()
	if wait >= 0 {
		m.pickupWait.Observe(wait.Seconds())
	}
}

// Rejected counts a failed operation under its failure code.
func (m *Metrics) Rejected(operation, code string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// StockRows replaces the per-hub health gauges.
func (m *Metrics) StockRows(counts map[string]map[string]int) {
	if m == nil {
		return
	}
	m.stockRows.Reset()
	for provider, byStatus := range counts {
		for status, n := range byStatus {
			m.stockRows.WithLabelValues(provider, status).Set(float64(n))
		}
	}
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "unknown"
	}
	return v
}
