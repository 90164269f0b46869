package detect

import (
	"argus/core"
	"argus/mitre"
)

// DefenseEvasionDetector covers anti-forensics and security-control
// tampering: log clearing and defensive tooling shutdown by keyword.
type DefenseEvasionDetector struct {
	rules []keywordRule
}

// NewDefenseEvasionDetector constructs the detector from policy
func NewDefenseEvasionDetector(policy *core.Policy) *DefenseEvasionDetector {
	return &DefenseEvasionDetector{
		rules: []keywordRule{
			{
				name: "Event log clearing",
				indicators: []string{
					"wevtutil cl", "clear-eventlog", "auditpol /clear",
					"history -c", "rm /var/log", "fsutil usn deletejournal",
				},
				signals:    []string{SignalDefenseEvasion, SignalLogTampering},
				confidence: 0.85,
				tactics:    []string{mitre.TacticDefenseEvasion},
				techniques: []string{mitre.TechniqueIndicatorRemoval, mitre.TechniqueClearWindowsEventLogs},
			},
			{
				name: "Security tooling disabled",
				indicators: []string{
					"set-mppreference -disablerealtimemonitoring",
					"netsh advfirewall set allprofiles state off",
					"systemctl stop auditd", "defender off",
				},
				signals:    []string{SignalDefenseEvasion, SignalSecurityToolDisable},
				confidence: 0.8,
				tactics:    []string{mitre.TacticDefenseEvasion},
				techniques: []string{mitre.TechniqueImpairDefenses},
			},
		},
	}
}

// Name implements Detector
func (d *DefenseEvasionDetector) Name() string {
	return "defense_evasion"
}

// Run implements Detector
func (d *DefenseEvasionDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	return runKeywordRules(d.Name(), events, d.rules)
}
