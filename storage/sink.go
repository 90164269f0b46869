package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"argus/core"
	"argus/metrics"
)

// AlertWriterSink adapts an AlertStore (and an optional suppression
// window) to the engine's persistence boundary. Each enriched detection
// maps 1:1 onto a fresh alert record.
type AlertWriterSink struct {
	store      AlertStore
	suppressor *Suppressor
	logger     *zap.SugaredLogger
}

// NewAlertWriterSink builds the sink. suppressor may be nil, in which
// case every alert is persisted.
func NewAlertWriterSink(store AlertStore, suppressor *Suppressor, logger *zap.SugaredLogger) *AlertWriterSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AlertWriterSink{store: store, suppressor: suppressor, logger: logger}
}

// Persist implements detect.AlertSink
func (s *AlertWriterSink) Persist(ctx context.Context, det *core.EnrichedDetection) error {
	alert, err := core.NewAlertFromDetection(det)
	if err != nil {
		return fmt.Errorf("failed to map detection to alert: %w", err)
	}

	if s.suppressor != nil && s.suppressor.ShouldSuppress(ctx, alert.Fingerprint) {
		metrics.AlertsSuppressed.Inc()
		s.logger.Debugf("Suppressed duplicate %s alert for %s", alert.Detector, alert.RiskObject)
		return nil
	}

	if err := s.store.InsertAlert(ctx, alert); err != nil {
		// The fingerprint was claimed before the insert; give it back so
		// the re-derived detection isn't silenced for the full TTL by an
		// alert that never landed.
		if s.suppressor != nil {
			s.suppressor.Release(ctx, alert.Fingerprint)
		}
		return err
	}
	metrics.AlertsPersisted.WithLabelValues(alert.Severity).Inc()
	s.logger.Infow("Alert persisted",
		"alert_id", alert.AlertID,
		"detector", alert.Detector,
		"severity", alert.Severity,
		"risk_score", alert.RiskScore,
		"risk_object", alert.RiskObject,
	)
	return nil
}
