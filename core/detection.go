package core

import "time"

// Detection is the unverified output of a single detector match.
// A Detection is created fresh on every engine run and has no identity of
// its own until the enrichment/persistence boundary assigns one; repeated
// alerts from the same condition are new Detection instances.
type Detection struct {
	// Detector is the name of the originating detector
	Detector string `json:"detector" example:"geo_velocity"`

	// MatchedEvents is the ordered, non-empty list of events that jointly
	// satisfied the rule. Sequence rules preserve temporal order.
	MatchedEvents []*UnifiedEvent `json:"matched_events"`

	// Signals are short machine-readable tags (e.g. "impossible_travel")
	Signals []string `json:"signals"`

	// Confidence is detector-assigned, rule-specific certainty in [0,1]
	Confidence float64 `json:"confidence" example:"0.9"`

	MitreTactics    []string `json:"mitre_tactics,omitempty"`
	MitreTechniques []string `json:"mitre_techniques,omitempty"`

	// Reasoning is an ordered list of human-readable explanations.
	// Reasoning[0] is always the primary justification and is consumed
	// verbatim by downstream summarization.
	Reasoning []string `json:"reasoning"`
}

// FirstEvent returns the first matched event, or nil for a malformed
// detection with no matches
func (d *Detection) FirstEvent() *UnifiedEvent {
	if len(d.MatchedEvents) == 0 {
		return nil
	}
	return d.MatchedEvents[0]
}

// StartTime returns the timestamp of the first matched event
func (d *Detection) StartTime() time.Time {
	if e := d.FirstEvent(); e != nil {
		return e.Timestamp
	}
	return time.Time{}
}

// RiskObjectType classifies the entity a detection is attributed to
type RiskObjectType string

const (
	RiskObjectTypeSystem  RiskObjectType = "system"
	RiskObjectTypeUser    RiskObjectType = "user"
	RiskObjectTypeUnknown RiskObjectType = "unknown"
)

// EnrichedDetection is a Detection annotated by the enrichment pipeline.
// This is the terminal artifact handed to the persistence collaborator,
// which maps it 1:1 onto an Alert record.
type EnrichedDetection struct {
	Detection

	// RiskScore is the capped composite score in [0, 1000]
	RiskScore float64 `json:"risk_score" example:"630"`

	// RiskObject is the primary entity (IP or user) the detection is
	// attributed to; RiskObjectType qualifies it.
	RiskObject     string         `json:"risk_object" example:"10.20.30.40"`
	RiskObjectType RiskObjectType `json:"risk_object_type" example:"system"`

	// RiskMessage is the synthesized human-readable risk statement
	RiskMessage string `json:"risk_message"`

	// Severity is the band classified from RiskScore
	Severity string `json:"severity" example:"High"`

	// RuleID is "{detector}@@{epochMillis}", assigned at enrichment time
	RuleID string `json:"rule_id" example:"geo_velocity@@1698753600000"`
	// RuleName is "{detector}_Detection"
	RuleName string `json:"rule_name" example:"geo_velocity_Detection"`
}
