// Package metrics defines the Prometheus instrumentation for the Argus
// detection engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_events_evaluated_total",
			Help: "Total number of events evaluated by the detection engine",
		},
	)

	DetectionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_detections_generated_total",
			Help: "Total number of detections generated",
		},
		[]string{"detector"},
	)

	AlertsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_alerts_persisted_total",
			Help: "Total number of alerts persisted",
		},
		[]string{"severity"},
	)

	AlertPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_alert_persist_failures_total",
			Help: "Total number of alerts that failed to persist",
		},
	)

	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_alerts_suppressed_total",
			Help: "Total number of alerts dropped by the suppression window",
		},
	)

	EngineRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_engine_run_duration_seconds",
			Help:    "Time taken by a full detection engine run",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_events_ingested_total",
			Help: "Total number of unified events accepted by the listener",
		},
		[]string{"source"},
	)

	IngestDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_ingest_decode_failures_total",
			Help: "Total number of listener payloads that failed to decode",
		},
	)
)
