// Package metrics exposes segment stream transitions as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliciousfudge/2d-side-scroller/internal/stream"
)

// Metrics holds Prometheus counters and gauges for segment streams. It
// implements stream.Observer and may be shared by several streams.
type Metrics struct {
	registry       *prometheus.Registry
	spawnedTotal   *prometheus.CounterVec
	recycledTotal  *prometheus.CounterVec
	exhaustedTotal prometheus.Counter
	clearedTotal   prometheus.Counter
	respawnsTotal  prometheus.Counter
	activeSegments prometheus.Gauge
	sessions       prometheus.Gauge
}

var _ stream.Observer = (*Metrics)(nil)

// New creates and registers Prometheus metrics for the scroller.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	spawnedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scroller_segments_spawned_total",
		Help: "Total number of segments taken from the pool and placed on the stream",
	}, []string{"segment"})
	recycledTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scroller_segments_recycled_total",
		Help: "Total number of segments returned to the pool after leaving the screen",
	}, []string{"segment"})
	exhaustedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scroller_pool_exhausted_total",
		Help: "Total number of spawns skipped because no segment was available",
	})
	clearedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scroller_segments_cleared_total",
		Help: "Total number of segments released by stream resets",
	})
	respawnsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scroller_respawns_total",
		Help: "Total number of times a stream was rebuilt from its starting segment",
	})
	activeSegments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scroller_active_segments",
		Help: "Number of segments currently on a stream",
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scroller_sessions",
		Help: "Number of connected SSH sessions",
	})

	registry.MustRegister(
		spawnedTotal,
		recycledTotal,
		exhaustedTotal,
		clearedTotal,
		respawnsTotal,
		activeSegments,
		sessions,
	)

	return &Metrics{
		registry:       registry,
		spawnedTotal:   spawnedTotal,
		recycledTotal:  recycledTotal,
		exhaustedTotal: exhaustedTotal,
		clearedTotal:   clearedTotal,
		respawnsTotal:  respawnsTotal,
		activeSegments: activeSegments,
		sessions:       sessions,
	}
}

// SegmentSpawned counts a spawn.
func (m *Metrics) SegmentSpawned(seg *stream.Segment) {
	m.spawnedTotal.WithLabelValues(seg.Name()).Inc()
	m.activeSegments.Inc()
}

// SegmentRecycled counts a recycle.
func (m *Metrics) SegmentRecycled(seg *stream.Segment) {
	m.recycledTotal.WithLabelValues(seg.Name()).Inc()
	m.activeSegments.Dec()
}

// PoolExhausted counts a skipped spawn.
func (m *Metrics) PoolExhausted() {
	m.exhaustedTotal.Inc()
}

// StreamCleared counts segments released by a reset.
func (m *Metrics) StreamCleared(released int) {
	m.clearedTotal.Add(float64(released))
	m.activeSegments.Sub(float64(released))
}

// StreamRespawned counts a respawn. The starting segment is active again.
func (m *Metrics) StreamRespawned(*stream.Segment) {
	m.respawnsTotal.Inc()
	m.activeSegments.Inc()
}

// SessionStarted increments the connected sessions gauge.
func (m *Metrics) SessionStarted() {
	m.sessions.Inc()
}

// SessionEnded decrements the connected sessions gauge.
func (m *Metrics) SessionEnded() {
	m.sessions.Dec()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
