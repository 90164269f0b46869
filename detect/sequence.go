package detect

import (
	"fmt"
	"strings"

	"argus/core"
	"argus/mitre"
)

// SequenceAnomalyDetector flags a discovery tool immediately followed by a
// suspicious next step for the same user. The matcher is strictly
// pairwise: it inspects adjacent events in the user's sorted timeline and
// never searches non-adjacent windows.
type SequenceAnomalyDetector struct {
	discovery []string
	followOn  []string
}

// NewSequenceAnomalyDetector constructs the detector from policy
func NewSequenceAnomalyDetector(policy *core.Policy) *SequenceAnomalyDetector {
	return &SequenceAnomalyDetector{
		discovery: lowerAll(policy.DiscoveryProcesses),
		followOn:  lowerAll(policy.FollowOnProcesses),
	}
}

// Name implements Detector
func (d *SequenceAnomalyDetector) Name() string {
	return "sequence_anomaly"
}

// Run implements Detector
func (d *SequenceAnomalyDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	groups, users := groupByUser(events)

	var detections []core.Detection
	for _, user := range users {
		seq := groups[user]
		for i := 1; i < len(seq); i++ {
			e1, e2 := seq[i-1], seq[i]
			d1, ok1 := matchSubstring(e1.Process(), d.discovery)
			if !ok1 {
				continue
			}
			d2, ok2 := matchSubstring(e2.Process(), d.followOn)
			if !ok2 {
				continue
			}

			gap := e2.Timestamp.Sub(e1.Timestamp).Seconds()
			detections = append(detections, core.Detection{
				Detector:      d.Name(),
				MatchedEvents: []*core.UnifiedEvent{e1, e2},
				Signals:       []string{SignalSuspiciousSequence, SignalDiscoveryFollowup},
				Confidence:    0.7,
				MitreTactics:  []string{mitre.TacticDiscovery, mitre.TacticExecution},
				MitreTechniques: []string{
					mitre.TechniqueAccountDiscovery,
				},
				Reasoning: []string{
					fmt.Sprintf("User %s ran discovery tool %q immediately followed by suspicious tool %q",
						user, e1.Process(), e2.Process()),
					fmt.Sprintf("Steps matched indicators %q then %q, %.0f seconds apart", d1, d2, gap),
				},
			})
		}
	}
	return detections
}

// matchSubstring does a case-insensitive substring check of value against
// the indicator list and returns the first matching indicator
func matchSubstring(value string, indicators []string) (string, bool) {
	if value == "" {
		return "", false
	}
	lowered := strings.ToLower(value)
	for _, indicator := range indicators {
		if strings.Contains(lowered, indicator) {
			return indicator, true
		}
	}
	return "", false
}

// lowerAll normalizes an indicator list once at construction
func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
