package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// ExfiltrationDetector covers outbound data theft: bulk transfers by byte
// volume on a single event and staging/transfer tooling by keyword.
type ExfiltrationDetector struct {
	policy *core.Policy
	rules  []keywordRule
}

// NewExfiltrationDetector constructs the detector from policy
func NewExfiltrationDetector(policy *core.Policy) *ExfiltrationDetector {
	return &ExfiltrationDetector{
		policy: policy,
		rules: []keywordRule{
			{
				name: "Exfiltration tooling",
				indicators: []string{
					"rclone", "megasync", "mega-cmd", "curl -t", "curl --upload-file",
					"scp ", "winscp", "filezilla",
				},
				signals:    []string{SignalExfilTooling, SignalExfiltration},
				confidence: 0.7,
				tactics:    []string{mitre.TacticExfiltration},
				techniques: []string{mitre.TechniqueExfilOverAltProtocol},
			},
		},
	}
}

// Name implements Detector
func (d *ExfiltrationDetector) Name() string {
	return "exfiltration"
}

// Run implements Detector
func (d *ExfiltrationDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	detections := runKeywordRules(d.Name(), events, d.rules)
	detections = append(detections, d.bulkTransfers(events)...)
	return detections
}

// bulkTransfers fires per event when its transferred byte count exceeds
// the policy threshold. Metadata values go through defensive numeric
// coercion; events without a usable number are skipped.
func (d *ExfiltrationDetector) bulkTransfers(events []*core.UnifiedEvent) []core.Detection {
	var detections []core.Detection
	for _, ev := range events {
		if ev.Source != core.SourceNetwork && ev.Source != core.SourceCloud {
			continue
		}
		bytes, ok := ev.MetadataNumber("bytes_transferred")
		if !ok {
			bytes, ok = ev.MetadataNumber("size")
		}
		if !ok || bytes <= float64(d.policy.ExfilBytesThreshold) {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   []*core.UnifiedEvent{ev},
			Signals:         []string{SignalExfiltration, SignalLargeTransfer},
			Confidence:      0.85,
			MitreTactics:    []string{mitre.TacticExfiltration},
			MitreTechniques: []string{mitre.TechniqueExfilOverC2},
			Reasoning: []string{
				fmt.Sprintf("Transfer of %.0f MB from %s exceeds the %d MB exfiltration threshold",
					bytes/(1024*1024), ev.SourceIP(), d.policy.ExfilBytesThreshold/(1024*1024)),
			},
		})
	}
	return detections
}
