package metrics

import (
	"github.com/ankur-anand/zktxnlog/pkg/txnlog"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "zktxnlog"
	subsystem = "decoder"
)

// DecodeMetrics counts what a single scan decoded. A nil *DecodeMetrics is a
// valid no-op.
type DecodeMetrics struct {
	registry *prometheus.Registry

	recordsTotal     *prometheus.CounterVec
	bytesTotal       prometheus.Counter
	failuresTotal    *prometheus.CounterVec
	endOfStreamTotal prometheus.Counter
}

// NewDecodeMetrics registers the decoder metrics on a private registry so
// tests and repeated scans do not collide on the default one.
func NewDecodeMetrics() *DecodeMetrics {
	m := &DecodeMetrics{
		registry: prometheus.NewRegistry(),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "records_total",
			Help:      "Total number of transaction records decoded.",
		}, []string{"op"}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_total",
			Help:      "Total number of log bytes consumed by decoded records.",
		}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Total number of scans that stopped on a decode failure.",
		}, []string{"kind"}),
		endOfStreamTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "end_of_stream_total",
			Help:      "Total number of scans that reached the end-of-stream frame.",
		}),
	}
	m.registry.MustRegister(m.recordsTotal, m.bytesTotal, m.failuresTotal, m.endOfStreamTotal)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *DecodeMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRecord counts one decoded record of size bytes.
func (m *DecodeMetrics) ObserveRecord(rec *txnlog.Record, size int64) {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(rec.Header.Type.String()).Inc()
	m.bytesTotal.Add(float64(size))
}

// ObserveTerminal counts how the scan ended.
func (m *DecodeMetrics) ObserveTerminal(err error) {
	if m == nil || err == nil {
		return
	}
	if txnlog.IsEndOfStream(err) {
		m.endOfStreamTotal.Inc()
		return
	}
	m.failuresTotal.WithLabelValues(txnlog.ErrorKind(err)).Inc()
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node exporter textfile collector.
func (m *DecodeMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
