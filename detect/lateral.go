package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// LateralMovementDetector covers movement between hosts: remote-execution
// tooling by keyword and fan-out to many distinct destination hosts by
// one source address.
type LateralMovementDetector struct {
	policy *core.Policy
	rules  []keywordRule
}

// NewLateralMovementDetector constructs the detector from policy
func NewLateralMovementDetector(policy *core.Policy) *LateralMovementDetector {
	return &LateralMovementDetector{
		policy: policy,
		rules: []keywordRule{
			{
				name: "Remote execution tool",
				indicators: []string{
					"psexec", "smbexec", "wmiexec", "crackmapexec",
					"wmic /node", "winrm", "evil-winrm",
				},
				signals:    []string{SignalLateralMovement},
				confidence: 0.85,
				tactics:    []string{mitre.TacticLateralMovement},
				techniques: []string{mitre.TechniqueRemoteServices},
			},
			{
				name: "Administrative share mount",
				indicators: []string{
					"net use \\\\", "admin$", "c$\\",
				},
				signals:    []string{SignalLateralMovement, SignalAdminShareUse},
				confidence: 0.75,
				tactics:    []string{mitre.TacticLateralMovement},
				techniques: []string{mitre.TechniqueSMBAdminShares},
			},
		},
	}
}

// Name implements Detector
func (d *LateralMovementDetector) Name() string {
	return "lateral_movement"
}

// Run implements Detector
func (d *LateralMovementDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	detections := runKeywordRules(d.Name(), events, d.rules)
	detections = append(detections, d.hostFanOut(events)...)
	return detections
}

// hostFanOut fires when one source address reaches at least the
// configured number of distinct destination hosts over network events
func (d *LateralMovementDetector) hostFanOut(events []*core.UnifiedEvent) []core.Detection {
	var netEvents []*core.UnifiedEvent
	for _, ev := range events {
		if ev.EventType == core.EventTypeNetworkConn && ev.DestIP() != "" {
			netEvents = append(netEvents, ev)
		}
	}
	groups, ips := groupBySourceIP(netEvents)

	var detections []core.Detection
	for _, ip := range ips {
		group := groups[ip]
		hosts := make(map[string]struct{})
		for _, ev := range group {
			hosts[ev.DestIP()] = struct{}{}
		}
		if len(hosts) < d.policy.LateralHostThreshold {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   group,
			Signals:         []string{SignalLateralMovement},
			Confidence:      0.7,
			MitreTactics:    []string{mitre.TacticLateralMovement},
			MitreTechniques: []string{mitre.TechniqueRemoteServices},
			Reasoning: []string{
				fmt.Sprintf("Source %s connected to %d distinct hosts (threshold %d)",
					ip, len(hosts), d.policy.LateralHostThreshold),
			},
		})
	}
	return detections
}
