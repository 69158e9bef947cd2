package prometheus

import (
	"time"

	"github.com/marmos91/sharetab/pkg/metrics"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterTransportMetricsConstructor(NewTransportMetrics)
}

// transportMetrics is the Prometheus implementation of transport.Metrics.
type transportMetrics struct {
	connectsTotal     *prometheus.CounterVec
	connectDuration   *prometheus.HistogramVec
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTotal        *prometheus.CounterVec
	entriesTotal      prometheus.Counter
}

// NewTransportMetrics creates a Prometheus-backed transport.Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewTransportMetrics() transport.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &transportMetrics{
		connectsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharetab_connects_total",
				Help: "Total number of session establishment attempts by server and status",
			},
			[]string{"server", "status"},
		),
		connectDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sharetab_connect_duration_milliseconds",
				Help: "Duration of session establishment in milliseconds",
				Buckets: []float64{
					10,    // LAN
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms - WAN or slow auth
					1000,  // 1s
					5000,  // 5s
					30000, // 30s - dial timeout
				},
			},
			[]string{"server"},
		),
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharetab_operations_total",
				Help: "Total number of open, list, and scan operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sharetab_operation_duration_milliseconds",
				Help: "Duration of open, list, and scan operations in milliseconds",
				Buckets: []float64{
					1,    // 1ms
					5,    // 5ms
					10,   // 10ms
					50,   // 50ms
					100,  // 100ms
					500,  // 500ms - large directory scans
					1000, // 1s
					5000, // 5s
				},
			},
			[]string{"operation"},
		),
		bytesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharetab_bytes_total",
				Help: "Total bytes transferred through file streams by direction",
			},
			[]string{"direction"},
		),
		entriesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "sharetab_directory_entries_total",
				Help: "Total number of directory entries returned by list and scan",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func (m *transportMetrics) ObserveConnect(server string, d time.Duration, err error) {
	m.connectsTotal.WithLabelValues(server, status(err)).Inc()
	m.connectDuration.WithLabelValues(server).Observe(milliseconds(d))
}

func (m *transportMetrics) ObserveOperation(op string, d time.Duration, err error) {
	m.operationsTotal.WithLabelValues(op, status(err)).Inc()
	m.operationDuration.WithLabelValues(op).Observe(milliseconds(d))
}

func (m *transportMetrics) RecordBytes(direction string, n int64) {
	m.bytesTotal.WithLabelValues(direction).Add(float64(n))
}

func (m *transportMetrics) RecordEntries(n int) {
	m.entriesTotal.Add(float64(n))
}
