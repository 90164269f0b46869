package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// CredentialHarvestingDetector covers credential theft: dumping tool
// keywords and password spraying by failed-login aggregation per source
// address.
type CredentialHarvestingDetector struct {
	policy *core.Policy
	rules  []keywordRule
}

// NewCredentialHarvestingDetector constructs the detector from policy
func NewCredentialHarvestingDetector(policy *core.Policy) *CredentialHarvestingDetector {
	return &CredentialHarvestingDetector{
		policy: policy,
		rules: []keywordRule{
			{
				name: "Credential dumping tool",
				indicators: []string{
					"mimikatz", "sekurlsa", "lsass", "lazagne", "pwdump",
					"gsecdump", "secretsdump",
				},
				signals:    []string{SignalCredentialDumping},
				confidence: 0.9,
				tactics:    []string{mitre.TacticCredentialAccess},
				techniques: []string{mitre.TechniqueOSCredentialDumping, mitre.TechniqueLSASSMemory},
			},
			{
				name: "Registry and directory credential extraction",
				indicators: []string{
					"reg save hklm\\sam", "reg save hklm\\system",
					"ntdsutil", "comsvcs.dll", "vssadmin create shadow",
				},
				signals:    []string{SignalCredentialDumping},
				confidence: 0.85,
				tactics:    []string{mitre.TacticCredentialAccess},
				techniques: []string{mitre.TechniqueOSCredentialDumping},
			},
		},
	}
}

// Name implements Detector
func (d *CredentialHarvestingDetector) Name() string {
	return "credential_harvesting"
}

// Run implements Detector
func (d *CredentialHarvestingDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	detections := runKeywordRules(d.Name(), events, d.rules)
	detections = append(detections, d.passwordSpraying(events)...)
	return detections
}

// passwordSpraying fires when one source address fails logins against at
// least the configured number of distinct accounts, with at least the
// configured number of total failures
func (d *CredentialHarvestingDetector) passwordSpraying(events []*core.UnifiedEvent) []core.Detection {
	var failures []*core.UnifiedEvent
	for _, ev := range events {
		if ev.EventType == core.EventTypeLoginFail {
			failures = append(failures, ev)
		}
	}
	groups, ips := groupBySourceIP(failures)

	var detections []core.Detection
	for _, ip := range ips {
		group := groups[ip]
		accounts := make(map[string]struct{})
		for _, ev := range group {
			if user := ev.User(); user != "" {
				accounts[user] = struct{}{}
			}
		}
		if len(accounts) < d.policy.SprayAccountThreshold || len(group) < d.policy.SprayFailureThreshold {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   group,
			Signals:         []string{SignalPasswordSpraying, SignalSuspiciousAuthSpike},
			Confidence:      0.8,
			MitreTactics:    []string{mitre.TacticCredentialAccess},
			MitreTechniques: []string{mitre.TechniquePasswordSpraying},
			Reasoning: []string{
				fmt.Sprintf("Source %s failed logins against %d distinct accounts (%d failures total)",
					ip, len(accounts), len(group)),
			},
		})
	}
	return detections
}
