package detect

import (
	"argus/core"
	"argus/mitre"
)

// PersistenceDetector covers foothold-keeping mechanisms: scheduled
// tasks, autostart registry keys, service installation and cron edits,
// all by keyword.
type PersistenceDetector struct {
	rules []keywordRule
}

// NewPersistenceDetector constructs the detector from policy
func NewPersistenceDetector(policy *core.Policy) *PersistenceDetector {
	return &PersistenceDetector{
		rules: []keywordRule{
			{
				name: "Scheduled task creation",
				indicators: []string{
					"schtasks /create", "at.exe", "crontab -e", "crontab -l",
				},
				signals:    []string{SignalPersistence, SignalScheduledTask},
				confidence: 0.8,
				tactics:    []string{mitre.TacticPersistence},
				techniques: []string{mitre.TechniqueScheduledTask},
			},
			{
				name: "Autostart registration",
				indicators: []string{
					"currentversion\\run", "reg add hkcu\\software\\microsoft\\windows",
					"startup folder", ".bashrc", "launchctl load",
				},
				signals:    []string{SignalPersistence, SignalAutostart},
				confidence: 0.75,
				tactics:    []string{mitre.TacticPersistence},
				techniques: []string{mitre.TechniqueBootAutostart},
			},
			{
				name: "Service installation",
				indicators: []string{
					"sc create", "sc config", "new-service", "systemctl enable",
				},
				signals:    []string{SignalPersistence},
				confidence: 0.7,
				tactics:    []string{mitre.TacticPersistence},
				techniques: []string{mitre.TechniqueCreateModifyService},
			},
		},
	}
}

// Name implements Detector
func (d *PersistenceDetector) Name() string {
	return "persistence"
}

// Run implements Detector
func (d *PersistenceDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	return runKeywordRules(d.Name(), events, d.rules)
}
