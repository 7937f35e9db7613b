package workspace

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks live views. A nil *Metrics records nothing.
type Metrics struct {
	liveViews prometheus.Gauge
	snapshots *prometheus.CounterVec
}

// NewMetrics creates the workspace metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		liveViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ekkora",
			Subsystem: "workspace",
			Name:      "live_views",
			Help:      "Number of attached live views.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ekkora",
			Subsystem: "workspace",
			Name:      "snapshots_total",
			Help:      "Snapshots delivered to live views.",
		}, []string{"view", "result"}),
	}
	reg.MustRegister(m.liveViews, m.snapshots)
	return m
}

func (m *Metrics) opened() {
	if m != nil {
		m.liveViews.Inc()
	}
}

func (m *Metrics) closed() {
	if m != nil {
		m.liveViews.Dec()
	}
}

func (m *Metrics) delivered(view string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.snapshots.WithLabelValues(view, result).Inc()
}
