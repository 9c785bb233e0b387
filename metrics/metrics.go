// Package metrics exports routing decisions of a replicas.Pool to
// Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ice-blockchain/go-replicas"
)

// Label names.
const (
	LblOperation  = "operation"
	LblRole       = "role"
	LblBackend    = "backend"
	LblRedirected = "redirected"
)

const (
	namespace = "replicas"
	subsystem = "router"
)

// RoutingMetrics implements replicas.Observer.
type RoutingMetrics struct {
	// RoutesTotal counts routed operations.
	// Labels: operation, role (primary, replica), backend, redirected (true, false)
	RoutesTotal *prometheus.CounterVec

	// ProviderErrorsTotal counts providers failing to produce a handle.
	ProviderErrorsTotal *prometheus.CounterVec
}

var _ replicas.Observer = (*RoutingMetrics)(nil)

func routesOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "routes_total",
		Help:      "Total number of routed operations, broken down by operation, role, backend and redirection.",
	}
}

func providerErrorsOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "provider_errors_total",
		Help:      "Total number of failures to get a backend handle, broken down by backend.",
	}
}

// NewRoutingMetrics creates routing metrics registered with the default
// registry.
func NewRoutingMetrics() *RoutingMetrics {
	return &RoutingMetrics{
		RoutesTotal: promauto.NewCounterVec(routesOpts(),
			[]string{LblOperation, LblRole, LblBackend, LblRedirected}),
		ProviderErrorsTotal: promauto.NewCounterVec(providerErrorsOpts(),
			[]string{LblBackend}),
	}
}

// NewRoutingMetricsWithRegistry creates routing metrics registered with reg.
// Useful for testing to avoid conflicts with the default registry.
func NewRoutingMetricsWithRegistry(reg prometheus.Registerer) *RoutingMetrics {
	m := &RoutingMetrics{
		RoutesTotal: prometheus.NewCounterVec(routesOpts(),
			[]string{LblOperation, LblRole, LblBackend, LblRedirected}),
		ProviderErrorsTotal: prometheus.NewCounterVec(providerErrorsOpts(),
			[]string{LblBackend}),
	}
	reg.MustRegister(m.RoutesTotal, m.ProviderErrorsTotal)
	return m
}

// ObserveRoute increments the route counter.
func (m *RoutingMetrics) ObserveRoute(op string, role replicas.Role, backend string, redirected bool) {
	m.RoutesTotal.WithLabelValues(op, role.String(), backend, strconv.FormatBool(redirected)).Inc()
}

// ObserveProviderError increments the provider error counter.
func (m *RoutingMetrics) ObserveProviderError(backend string) {
	m.ProviderErrorsTotal.WithLabelValues(backend).Inc()
}
