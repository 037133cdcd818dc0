package parodus

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the Prometheus collectors the instance updates. Passing
// nil via Config disables metrics entirely — every call site below guards
// against a nil *Metrics.
type Metrics struct {
	ReconnectCount prometheus.Counter
	KeepaliveCount prometheus.Counter
	QueueDepth     prometheus.Gauge
	DroppedFrames  *prometheus.CounterVec // labeled by reason: "decode", "filter", "enqueue_timeout"
}

// NewMetrics registers a Metrics bundle with reg under the parodus_client
// namespace, labeled by service_name. Callers that don't want Prometheus
// wiring simply never call this and leave Config.Metrics nil.
func NewMetrics(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service_name": serviceName}
	m := &Metrics{
		ReconnectCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "parodus_client",
			Name:        "reconnect_total",
			Help:        "Number of successful inbound-socket reconnects.",
			ConstLabels: labels,
		}),
		KeepaliveCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "parodus_client",
			Name:        "keepalive_frames_total",
			Help:        "Number of SERVICE_KEEPALIVE frames observed.",
			ConstLabels: labels,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "parodus_client",
			Name:        "queue_depth",
			Help:        "Approximate depth of the inbound message queue.",
			ConstLabels: labels,
		}),
		DroppedFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "parodus_client",
			Name:        "dropped_frames_total",
			Help:        "Inbound frames dropped before reaching the application.",
			ConstLabels: labels,
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.ReconnectCount, m.KeepaliveCount, m.QueueDepth, m.DroppedFrames)
	}
	return m
}

func (m *Metrics) incReconnect() {
	if m != nil {
		m.ReconnectCount.Inc()
	}
}

func (m *Metrics) incKeepalive() {
	if m != nil {
		m.KeepaliveCount.Inc()
	}
}

func (m *Metrics) setQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

func (m *Metrics) incDropped(reason string) {
	if m != nil {
		m.DroppedFrames.WithLabelValues(reason).Inc()
	}
}
