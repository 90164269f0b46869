package detect

import (
	"context"
	"sync"
	"time"

	"argus/core"
	"argus/metrics"

	"go.uber.org/zap"
)

// AlertSink is the persistence boundary the engine hands enriched
// detections to. The collaborator behind it maps each detection 1:1 onto
// an alert record; a per-item failure is the sink's to report and the
// engine's to log and skip.
type AlertSink interface {
	Persist(ctx context.Context, det *core.EnrichedDetection) error
}

// Engine orchestrates the detector roster over an event batch and drives
// the enrichment pipeline. The engine holds no state across calls: every
// invocation re-derives everything from the supplied batch, so one engine
// may be invoked concurrently on disjoint batches.
type Engine struct {
	detectors     []Detector
	sink          AlertSink
	logger        *zap.SugaredLogger
	workers       int
	minConfidence float64
}

// NewEngine creates a detection engine over an ordered detector roster.
// workers > 1 fans detectors out across goroutines; output order is the
// roster order either way. sink may be nil for evaluate-only use.
func NewEngine(detectors []Detector, sink AlertSink, logger *zap.SugaredLogger, workers int, minConfidence float64) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		detectors:     detectors,
		sink:          sink,
		logger:        logger,
		workers:       workers,
		minConfidence: minConfidence,
	}
}

// RunDetections evaluates every registered detector against the full
// batch, enriches each raw detection and hands the results to the alert
// sink. Persistence failures for individual detections are logged and
// skipped; they never abort the run.
func (e *Engine) RunDetections(ctx context.Context, events []*core.UnifiedEvent) []core.EnrichedDetection {
	start := time.Now()
	metrics.EventsEvaluated.Add(float64(len(events)))

	raw := e.runDetectors(events)

	epochMillis := time.Now().UnixMilli()
	enriched := make([]core.EnrichedDetection, 0, len(raw))
	for _, det := range raw {
		if det.Confidence < e.minConfidence {
			e.logger.Debugf("Dropping %s detection below confidence floor (%.2f < %.2f)",
				det.Detector, det.Confidence, e.minConfidence)
			continue
		}
		metrics.DetectionsGenerated.WithLabelValues(det.Detector).Inc()
		enriched = append(enriched, enrichDetection(det, epochMillis))
	}

	e.persist(ctx, enriched)

	duration := time.Since(start)
	metrics.EngineRunDuration.Observe(duration.Seconds())
	e.logger.Infof("Engine run complete: %d events, %d detections, %v", len(events), len(enriched), duration)

	return enriched
}

// runDetectors executes the roster and concatenates the outputs in
// registration order. With multiple workers the detectors run in
// parallel against the shared read-only batch; results are collected by
// roster index so the concatenation order never depends on scheduling.
func (e *Engine) runDetectors(events []*core.UnifiedEvent) []core.Detection {
	results := make([][]core.Detection, len(e.detectors))

	if e.workers <= 1 {
		for i, det := range e.detectors {
			results[i] = det.Run(events)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)
		for i, det := range e.detectors {
			wg.Add(1)
			go func(idx int, det Detector) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results[idx] = det.Run(events)
			}(i, det)
		}
		wg.Wait()
	}

	var combined []core.Detection
	for _, batch := range results {
		combined = append(combined, batch...)
	}
	return combined
}

// persist hands each enriched detection to the sink, continuing on error
func (e *Engine) persist(ctx context.Context, detections []core.EnrichedDetection) {
	if e.sink == nil {
		return
	}
	for i := range detections {
		det := &detections[i]
		if err := e.sink.Persist(ctx, det); err != nil {
			metrics.AlertPersistFailures.Inc()
			e.logger.Errorf("Failed to persist %s detection (risk %.0f): %v", det.Detector, det.RiskScore, err)
			continue
		}
	}
}
