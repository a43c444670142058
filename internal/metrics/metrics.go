// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "settleup"

// Metrics holds every collector the server updates. A nil *Metrics is valid
// and records nothing, which keeps tests and tools free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	LedgerTransactions *prometheus.CounterVec
	LedgerRejections   *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LedgerTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_transactions_total",
			Help:      "Committed ledger writes, by kind (single, group, delete).",
		}, []string{"kind"}),
		LedgerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rejections_total",
			Help:      "Ledger writes rejected before commit, by reason.",
		}, []string{"reason"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification outcomes (sent, failed, dropped).",
		}, []string{"status"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.LedgerTransactions, m.LedgerRejections, m.Notifications)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// LedgerWrite counts a committed write.
func (m *Metrics) LedgerWrite(kind string) {
	if m == nil {
		return
	}
	m.LedgerTransactions.WithLabelValues(kind).Inc()
}

// LedgerRejection counts a write refused during validation.
func (m *Metrics) LedgerRejection(reason string) {
	if m == nil {
		return
	}
	m.LedgerRejections.WithLabelValues(reason).Inc()
}

// Notification counts a notification outcome.
func (m *Metrics) Notification(status string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(status).Inc()
}
