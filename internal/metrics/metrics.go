// Package metrics holds the Prometheus instruments for snapshot building and
// the selection stream.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/agripulse/pkg/models"
)

// Registry holds all AgriPulse metrics on a private Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	SnapshotsBuilt  *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	StreamSessions  prometheus.Gauge
	StaleSelections prometheus.Counter
	Throttled       prometheus.Counter
}

// NewRegistry creates and registers every metric. Go runtime and process
// collectors are included.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		SnapshotsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agripulse_snapshots_built_total",
				Help: "Snapshots built, by commodity and trend",
			},
			[]string{"commodity", "trend"},
		),

		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "agripulse_snapshot_build_seconds",
				Help:    "Time to synthesize and classify one snapshot",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),

		StreamSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agripulse_stream_sessions",
				Help: "Open selection stream connections",
			},
		),

		StaleSelections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agripulse_stream_stale_selections_total",
				Help: "Selections dropped because a newer one was already answered",
			},
		),

		Throttled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agripulse_stream_throttled_total",
				Help: "Selections rejected by the per-connection rate limit",
			},
		),
	}

	r.reg.MustRegister(
		r.SnapshotsBuilt,
		r.BuildDuration,
		r.StreamSessions,
		r.StaleSelections,
		r.Throttled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveSnapshot records one built snapshot. A nil Registry is a no-op.
func (r *Registry) ObserveSnapshot(commodity string, trend models.Trend, took time.Duration) {
	if r == nil {
		return
	}
	r.SnapshotsBuilt.WithLabelValues(commodity, string(trend)).Inc()
	r.BuildDuration.Observe(took.Seconds())
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
