package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the dashboard collectors.
type Metrics struct {
	RowsRendered   prometheus.Counter
	RenderFailures *prometheus.CounterVec
	Actions        *prometheus.CounterVec
	ToastsRelayed  prometheus.Counter
	BloomKeys      prometheus.Gauge
}

// NewMetrics registers the dashboard collectors, plus Go and process collectors, on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RowsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkdash",
			Name:      "rows_rendered_total",
			Help:      "Dashboard rows rendered.",
		}),
		RenderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkdash",
			Name:      "render_failures_total",
			Help:      "Rows that failed to render, by reason.",
		}, []string{"reason"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkdash",
			Name:      "actions_total",
			Help:      "Row actions dispatched, by action and outcome.",
		}, []string{"action", "outcome"}),
		ToastsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkdash",
			Name:      "toasts_relayed_total",
			Help:      "Toasts moved from the stream into session inboxes.",
		}),
		BloomKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linkdash",
			Name:      "resolver_bloom_keys",
			Help:      "Keys loaded into the resolver bloom filter on the last refresh.",
		}),
	}

	reg.MustRegister(
		m.RowsRendered,
		m.RenderFailures,
		m.Actions,
		m.ToastsRelayed,
		m.BloomKeys,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// NewNopMetrics returns collectors registered on a throwaway registry.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
