package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// ImpactDetector covers destructive activity: ransomware-scale file
// modification by metadata threshold and recovery/backup destruction by
// keyword.
type ImpactDetector struct {
	policy *core.Policy
	rules  []keywordRule
}

// NewImpactDetector constructs the detector from policy
func NewImpactDetector(policy *core.Policy) *ImpactDetector {
	return &ImpactDetector{
		policy: policy,
		rules: []keywordRule{
			{
				name: "Recovery destruction command",
				indicators: []string{
					"vssadmin delete shadows", "wbadmin delete catalog",
					"bcdedit /set {default} recoveryenabled no",
					"cipher /w", "shred -u", "wmic shadowcopy delete",
				},
				signals:    []string{SignalDataDestruction, SignalRansomware},
				confidence: 0.9,
				tactics:    []string{mitre.TacticImpact},
				techniques: []string{mitre.TechniqueInhibitSystemRecovery, mitre.TechniqueDataDestruction},
			},
		},
	}
}

// Name implements Detector
func (d *ImpactDetector) Name() string {
	return "impact"
}

// Run implements Detector
func (d *ImpactDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	detections := runKeywordRules(d.Name(), events, d.rules)
	detections = append(detections, d.massFileModification(events)...)
	return detections
}

// massFileModification fires per file-activity event when its
// modified-file count crosses the ransomware threshold
func (d *ImpactDetector) massFileModification(events []*core.UnifiedEvent) []core.Detection {
	var detections []core.Detection
	for _, ev := range events {
		if ev.EventType != core.EventTypeFileModified {
			continue
		}
		count, ok := ev.MetadataNumber("files_modified")
		if !ok || count <= float64(d.policy.RansomwareFileThreshold) {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   []*core.UnifiedEvent{ev},
			Signals:         []string{SignalRansomware, SignalMassFileModification},
			Confidence:      0.9,
			MitreTactics:    []string{mitre.TacticImpact},
			MitreTechniques: []string{mitre.TechniqueDataEncryptedImpact},
			Reasoning: []string{
				fmt.Sprintf("Host activity modified %.0f files (threshold %d), consistent with ransomware encryption",
					count, d.policy.RansomwareFileThreshold),
			},
		})
	}
	return detections
}
