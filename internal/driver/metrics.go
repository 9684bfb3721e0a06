package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grahamc/nix-channel-monitor/internal/render"
)

// Metrics exports render statistics. A nil *Metrics records nothing.
type Metrics struct {
	renders  prometheus.Counter
	duration prometheus.Histogram
	elements prometheus.Gauge
	entered  prometheus.Counter
	exited   prometheus.Counter
}

// NewMetrics creates the render metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "channeltimeline_renders_total",
			Help: "Number of timeline renders.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "channeltimeline_render_duration_seconds",
			Help:    "Time spent laying out and reconciling the timeline.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		elements: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "channeltimeline_scene_elements",
			Help: "Number of elements in the scene after the last render.",
		}),
		entered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "channeltimeline_elements_entered_total",
			Help: "Channel rows and event points created by renders.",
		}),
		exited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "channeltimeline_elements_exited_total",
			Help: "Channel rows and event points removed by renders.",
		}),
	}
	reg.MustRegister(m.renders, m.duration, m.elements, m.entered, m.exited)
	return m
}

func (m *Metrics) observe(rep render.Report, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renders.Inc()
	m.duration.Observe(elapsed.Seconds())
	m.elements.Set(float64(rep.Elements))
	m.entered.Add(float64(rep.Entered))
	m.exited.Add(float64(rep.Exited))
}
