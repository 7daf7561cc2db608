// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for the relay.
// Counters live in a private Prometheus registry and can be exported over
// HTTP or read back as a flat snapshot.

package control

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "statrelay"

// MetricsRegistry holds relay counters. A nil *MetricsRegistry is valid and
// records nothing.
type MetricsRegistry struct {
	reg *prometheus.Registry

	recordsSent   prometheus.Counter
	bytesSent     prometheus.Counter
	writeCalls    prometheus.Counter
	bytesReceived prometheus.Counter
	connects      *prometheus.CounterVec
	errors        *prometheus.CounterVec
	connected     prometheus.Gauge

	mu      sync.RWMutex
	updated time.Time
}

// NewMetricsRegistry creates a registry with all relay collectors registered.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		reg: prometheus.NewRegistry(),
		recordsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_sent_total",
			Help:      "Records fully accepted by the socket.",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_sent_total",
			Help:      "Bytes accepted by the socket.",
		}),
		writeCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "write_calls_total",
			Help:      "write(2) calls issued by the send path, including short writes.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_received_total",
			Help:      "Bytes read from the peer and forwarded to the output.",
		}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connects_total",
			Help:      "Established connection handles by role.",
		}, []string{"role"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Failures by step or operation.",
		}, []string{"kind"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connected",
			Help:      "1 while a connection handle is valid.",
		}),
	}
	m.reg.MustRegister(m.recordsSent, m.bytesSent, m.writeCalls, m.bytesReceived,
		m.connects, m.errors, m.connected)
	return m
}

func (m *MetricsRegistry) touch() {
	m.mu.Lock()
	m.updated = time.Now()
	m.mu.Unlock()
}

// WriteCall counts one write attempt that accepted n bytes.
func (m *MetricsRegistry) WriteCall(n int) {
	if m == nil {
		return
	}
	m.writeCalls.Inc()
	m.bytesSent.Add(float64(n))
	m.touch()
}

// RecordSent counts one fully transmitted record.
func (m *MetricsRegistry) RecordSent() {
	if m == nil {
		return
	}
	m.recordsSent.Inc()
	m.touch()
}

// BytesReceived counts n forwarded bytes.
func (m *MetricsRegistry) BytesReceived(n int) {
	if m == nil {
		return
	}
	m.bytesReceived.Add(float64(n))
	m.touch()
}

// Connected marks a new valid handle for role ("client" or "server").
func (m *MetricsRegistry) Connected(role string) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(role).Inc()
	m.connected.Set(1)
	m.touch()
}

// Disconnected marks the handle as torn down.
func (m *MetricsRegistry) Disconnected() {
	if m == nil {
		return
	}
	m.connected.Set(0)
	m.touch()
}

// Error counts one failure of the named step or operation.
func (m *MetricsRegistry) Error(kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind).Inc()
	m.touch()
}

// Updated returns the time of the last recorded change.
func (m *MetricsRegistry) Updated() time.Time {
	if m == nil {
		return time.Time{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updated
}

// Registry exposes the underlying Prometheus registry.
func (m *MetricsRegistry) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// GetSnapshot returns the latest values keyed by metric name with labels,
// e.g. `statrelay_connects_total{role="client"}`.
func (m *MetricsRegistry) GetSnapshot() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	families, err := m.reg.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var b strings.Builder
			b.WriteString(mf.GetName())
			if labels := metric.GetLabel(); len(labels) > 0 {
				pairs := make([]string, 0, len(labels))
				for _, lp := range labels {
					pairs = append(pairs, lp.GetName()+`="`+lp.GetValue()+`"`)
				}
				sort.Strings(pairs)
				b.WriteString("{" + strings.Join(pairs, ",") + "}")
			}
			switch {
			case metric.GetCounter() != nil:
				out[b.String()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[b.String()] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}
