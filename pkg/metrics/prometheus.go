package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshes       *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	snapshotAge     prometheus.Gauge
	latency         *prometheus.HistogramVec
	eventsPublished *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cosmopulse_refreshes_total",
				Help: "Total number of transit cache refresh attempts",
			},
			[]string{"trigger", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cosmopulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		snapshotAge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "cosmopulse_snapshot_age_seconds",
				Help: "Age of the live transit snapshot",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cosmopulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		eventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cosmopulse_events_published_total",
				Help: "Snapshot events published to the backbone",
			},
			[]string{"topic"},
		),
	}
}

// RecordRefresh records one refresh attempt by trigger (timer, readthrough,
// start) and outcome (ok, error).
func (r *Recorder) RecordRefresh(trigger, outcome string) {
	r.refreshes.WithLabelValues(trigger, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSnapshotAge records the live snapshot age in seconds.
func (r *Recorder) RecordSnapshotAge(seconds float64) {
	r.snapshotAge.Set(seconds)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordEventPublished records a snapshot event published to a topic.
func (r *Recorder) RecordEventPublished(topic string) {
	r.eventsPublished.WithLabelValues(topic).Inc()
}
