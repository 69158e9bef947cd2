package metrics

import "github.com/marmos91/sharetab/pkg/transport"

// NewTransportMetrics creates a Prometheus-backed transport.Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or no
// implementation was linked in. Passing nil to the transport layer disables
// collection with zero overhead.
//
// Example usage:
//
//	import _ "github.com/marmos91/sharetab/pkg/metrics/prometheus"
//
//	metrics.InitRegistry()
//	sessions := transport.NewSessionManager(dialer, creds, metrics.NewTransportMetrics())
func NewTransportMetrics() transport.Metrics {
	if !IsEnabled() || newPrometheusTransportMetrics == nil {
		return nil
	}
	return newPrometheusTransportMetrics()
}

// newPrometheusTransportMetrics is set by pkg/metrics/prometheus. The
// indirection keeps this package free of an import cycle.
var newPrometheusTransportMetrics func() transport.Metrics

// RegisterTransportMetricsConstructor registers the Prometheus constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterTransportMetricsConstructor(constructor func() transport.Metrics) {
	newPrometheusTransportMetrics = constructor
}
