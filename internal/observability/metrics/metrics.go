package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the dialogue pipeline.
type ChatMetrics struct {
	turnsTotal  *prometheus.CounterVec
	turnLatency *prometheus.HistogramVec
	queueDepth  prometheus.Gauge
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"intent", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversation turn through the pipeline",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "concierge",
			Subsystem: "chat",
			Name:      "dispatch_inflight",
			Help:      "Turns currently waiting on the dispatcher",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.queueDepth)
	return m
}

func (m *ChatMetrics) ObserveTurn(intent, status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, status).Inc()
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *ChatMetrics) DispatchStarted() {
	if m == nil {
		return
	}
	m.queueDepth.Inc()
}

func (m *ChatMetrics) DispatchFinished() {
	if m == nil {
		return
	}
	m.queueDepth.Dec()
}
