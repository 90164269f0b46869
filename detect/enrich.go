package detect

import (
	"fmt"
	"math"
	"strings"

	"argus/core"
	"argus/mitre"
)

// Severity multipliers applied to the base risk score. Tiers are checked
// in strict priority order against the lower-cased signal set; the first
// matching tier wins.
const (
	multiplierCritical = 10
	multiplierHigh     = 7
	multiplierMedium   = 4
	multiplierLow      = 2
)

// maxRiskScore caps the composite score
const maxRiskScore = 1000

var (
	criticalSignals = []string{"ransomware", "credential_dumping", "mimikatz", "data_destruction"}
	highSignals     = []string{"lateral_movement", "exfiltration", "persistence", "privilege_escalation", "malware"}
	mediumSignals   = []string{"reconnaissance", "discovery", "suspicious", "anomalous"}
)

// enrichDetection runs the full enrichment pipeline over one raw
// detection: risk scoring, entity resolution, severity banding, message
// synthesis and rule identity. epochMillis stamps the RuleID and is taken
// once per engine run so one run's alerts share a rule timestamp.
func enrichDetection(det core.Detection, epochMillis int64) core.EnrichedDetection {
	baseRisk := det.Confidence * 100
	riskScore := math.Min(baseRisk*float64(severityMultiplier(det.Signals)), maxRiskScore)

	object, objectType := resolveRiskObject(det.FirstEvent())
	severity := severityBand(riskScore)

	return core.EnrichedDetection{
		Detection:      det,
		RiskScore:      riskScore,
		RiskObject:     object,
		RiskObjectType: objectType,
		RiskMessage:    riskMessage(&det, object, objectType),
		Severity:       severity,
		RuleID:         fmt.Sprintf("%s@@%d", det.Detector, epochMillis),
		RuleName:       fmt.Sprintf("%s_Detection", det.Detector),
	}
}

// severityMultiplier picks the first matching tier for the signal set
func severityMultiplier(signals []string) int {
	if anySignalContains(signals, criticalSignals) {
		return multiplierCritical
	}
	if anySignalContains(signals, highSignals) {
		return multiplierHigh
	}
	if anySignalContains(signals, mediumSignals) {
		return multiplierMedium
	}
	return multiplierLow
}

// anySignalContains checks the lower-cased signals for any of the tier
// substrings
func anySignalContains(signals, needles []string) bool {
	for _, signal := range signals {
		lowered := strings.ToLower(signal)
		for _, needle := range needles {
			if strings.Contains(lowered, needle) {
				return true
			}
		}
	}
	return false
}

// resolveRiskObject attributes the detection to its primary entity from
// the first matched event: source address first, then actor user.
func resolveRiskObject(first *core.UnifiedEvent) (string, core.RiskObjectType) {
	if first == nil {
		return "", core.RiskObjectTypeUnknown
	}
	if ip := first.SourceIP(); ip != "" {
		return ip, core.RiskObjectTypeSystem
	}
	if user := first.User(); user != "" {
		return user, core.RiskObjectTypeUser
	}
	return "", core.RiskObjectTypeUnknown
}

// severityBand classifies the capped risk score
func severityBand(riskScore float64) string {
	switch {
	case riskScore < 100:
		return core.SeverityLow
	case riskScore < 400:
		return core.SeverityMedium
	case riskScore < 700:
		return core.SeverityHigh
	default:
		return core.SeverityCritical
	}
}

// riskMessage synthesizes the human-readable risk statement. With a
// resolved threat object it phrases an indicator match; otherwise it
// falls back to the first signal and MITRE technique.
func riskMessage(det *core.Detection, object string, objectType core.RiskObjectType) string {
	firstSignal := ""
	if len(det.Signals) > 0 {
		firstSignal = det.Signals[0]
	}

	if object != "" && objectType != core.RiskObjectTypeUnknown {
		return fmt.Sprintf("Threat indicator %s observed on %s %s", firstSignal, objectType, object)
	}

	technique := "unknown technique"
	if len(det.MitreTechniques) > 0 {
		id := det.MitreTechniques[0]
		technique = id
		if mitre.Known(id) {
			technique = fmt.Sprintf("%s (%s)", id, mitre.TechniqueName(id))
		}
	}
	return fmt.Sprintf("Detected %s associated with %s", firstSignal, technique)
}
