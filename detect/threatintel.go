package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
	"argus/threat"
)

// ThreatIntelDetector matches every event independently against the
// configured indicator sets. Intel hits are treated as high-confidence by
// policy, not computed: one detection per matching event at 0.9.
type ThreatIntelDetector struct {
	intel *threat.IntelSet
}

// NewThreatIntelDetector constructs the detector over an indicator snapshot
func NewThreatIntelDetector(intel *threat.IntelSet) *ThreatIntelDetector {
	return &ThreatIntelDetector{intel: intel}
}

// Name implements Detector
func (d *ThreatIntelDetector) Name() string {
	return "threat_intel"
}

// Run implements Detector. Stateless per event: no grouping or sorting.
func (d *ThreatIntelDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	var detections []core.Detection
	for _, ev := range events {
		var signals []string
		var reasoning []string

		if ip := ev.SourceIP(); d.intel.MaliciousIP(ip) {
			signals = append(signals, SignalIntelMaliciousIP)
			reasoning = append(reasoning,
				fmt.Sprintf("Source address %s matches a known-malicious IP indicator", ip))
		}
		if indicator, ok := d.intel.MatchProcess(ev.Process()); ok {
			signals = append(signals, SignalIntelSuspiciousProcess)
			reasoning = append(reasoning,
				fmt.Sprintf("Process %q matches malicious indicator %q", ev.Process(), indicator))
		}

		if len(signals) == 0 {
			continue
		}

		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   []*core.UnifiedEvent{ev},
			Signals:         signals,
			Confidence:      0.9,
			MitreTactics:    []string{mitre.TacticExecution},
			MitreTechniques: []string{mitre.TechniqueApplicationLayerProto},
			Reasoning:       reasoning,
		})
	}
	return detections
}
