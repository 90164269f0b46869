package detect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/core"
	"argus/threat"
)

// stubDetector emits a fixed detection set regardless of input
type stubDetector struct {
	name       string
	detections []core.Detection
}

func (d *stubDetector) Name() string { return d.name }

func (d *stubDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	return d.detections
}

func stub(name string, confidences ...float64) *stubDetector {
	d := &stubDetector{name: name}
	for _, c := range confidences {
		d.detections = append(d.detections, core.Detection{
			Detector:   name,
			Signals:    []string{"suspicious_activity"},
			Confidence: c,
		})
	}
	return d
}

// recordingSink captures persisted detections and can fail on demand
type recordingSink struct {
	mu        sync.Mutex
	persisted []string
	failOn    map[string]bool
}

func (s *recordingSink) Persist(ctx context.Context, det *core.EnrichedDetection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[det.Detector] {
		return errors.New("store unavailable")
	}
	s.persisted = append(s.persisted, det.Detector)
	return nil
}

func TestEngine_OutputFollowsRegistrationOrder(t *testing.T) {
	detectors := []Detector{
		stub("alpha", 0.9),
		stub("bravo", 0.8, 0.7),
		stub("charlie", 0.6),
	}

	// Run with parallel workers several times; order must never vary
	engine := NewEngine(detectors, nil, nil, 4, 0)
	for i := 0; i < 20; i++ {
		out := engine.RunDetections(context.Background(), nil)
		require.Len(t, out, 4)
		assert.Equal(t, "alpha", out[0].Detector)
		assert.Equal(t, "bravo", out[1].Detector)
		assert.Equal(t, "bravo", out[2].Detector)
		assert.Equal(t, "charlie", out[3].Detector)
	}
}

func TestEngine_SingleWorkerMatchesParallel(t *testing.T) {
	detectors := []Detector{stub("alpha", 0.9), stub("bravo", 0.8)}

	serial := NewEngine(detectors, nil, nil, 1, 0).RunDetections(context.Background(), nil)
	parallel := NewEngine(detectors, nil, nil, 8, 0).RunDetections(context.Background(), nil)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Detector, parallel[i].Detector)
		assert.Equal(t, serial[i].RiskScore, parallel[i].RiskScore)
	}
}

func TestEngine_MinConfidenceFilter(t *testing.T) {
	detectors := []Detector{stub("alpha", 0.9, 0.4, 0.65)}

	engine := NewEngine(detectors, nil, nil, 1, 0.65)
	out := engine.RunDetections(context.Background(), nil)

	require.Len(t, out, 2)
	assert.Equal(t, 0.9, out[0].Confidence)
	assert.Equal(t, 0.65, out[1].Confidence)
}

func TestEngine_PersistContinuesPastSinkFailure(t *testing.T) {
	detectors := []Detector{stub("alpha", 0.9), stub("bravo", 0.9), stub("charlie", 0.9)}
	sink := &recordingSink{failOn: map[string]bool{"bravo": true}}

	engine := NewEngine(detectors, sink, nil, 1, 0)
	out := engine.RunDetections(context.Background(), nil)

	// The run still returns all three; only the failing one is unpersisted
	require.Len(t, out, 3)
	assert.Equal(t, []string{"alpha", "charlie"}, sink.persisted)
}

func TestEngine_SharedRuleTimestampPerRun(t *testing.T) {
	detectors := []Detector{stub("alpha", 0.9), stub("bravo", 0.9)}

	engine := NewEngine(detectors, nil, nil, 1, 0)
	out := engine.RunDetections(context.Background(), nil)

	require.Len(t, out, 2)
	suffixA := out[0].RuleID[len("alpha@@"):]
	suffixB := out[1].RuleID[len("bravo@@"):]
	assert.Equal(t, suffixA, suffixB)
}

func TestEngine_RerunOverSameBatchIsIdempotent(t *testing.T) {
	policy := core.DefaultPolicy()
	detectors := []Detector{NewReconDetector(policy), NewImpactDetector(policy)}

	evs := events(
		processEvent("alice", "nmap", base),
		commandEvent("vssadmin delete shadows /all"),
	)

	engine := NewEngine(detectors, nil, nil, 2, 0)
	first := engine.RunDetections(context.Background(), evs)
	second := engine.RunDetections(context.Background(), evs)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Detector, second[i].Detector)
		assert.Equal(t, first[i].Signals, second[i].Signals)
		assert.Equal(t, first[i].RiskScore, second[i].RiskScore)
	}
}

func TestEngine_EmptyBatchYieldsNothing(t *testing.T) {
	policy := core.DefaultPolicy()
	engine := NewEngine(DefaultRoster(policy, threat.NewIntelSet(nil, nil)), nil, nil, 4, 0)

	assert.Empty(t, engine.RunDetections(context.Background(), nil))
}
