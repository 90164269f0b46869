package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNilDetection is returned when an alert is built from a nil detection
var ErrNilDetection = errors.New("detection cannot be nil")

// ErrNoMatchedEvents is returned when a detection carries no events
var ErrNoMatchedEvents = errors.New("detection has no matched events")

// Alert is the persisted record an enriched detection maps 1:1 onto.
// The engine hands enriched detections to the persistence collaborator;
// this is the shape that crosses that boundary.
type Alert struct {
	AlertID    string      `json:"alert_id" example:"a3f1c9e2-..."`
	Timestamp  time.Time   `json:"timestamp"`
	Status     AlertStatus `json:"status" example:"Pending"`
	Summary    string      `json:"summary"`
	Severity   string      `json:"severity" example:"High"`
	Priority   string      `json:"priority" example:"Medium"`
	Confidence float64     `json:"confidence" example:"0.9"`

	Detector        string   `json:"detector" example:"geo_velocity"`
	Signals         []string `json:"signals"`
	MitreTactics    []string `json:"mitre_tactics,omitempty"`
	MitreTechniques []string `json:"mitre_techniques,omitempty"`
	Reasoning       []string `json:"reasoning"`

	// EventIDs references the matched events by their storage identifiers.
	// Events not yet persisted have no ID and are omitted.
	EventIDs []string `json:"event_ids"`

	RiskScore      float64        `json:"risk_score" example:"630"`
	RiskObject     string         `json:"risk_object" example:"10.20.30.40"`
	RiskObjectType RiskObjectType `json:"risk_object_type" example:"system"`
	RiskMessage    string         `json:"risk_message"`

	RuleID   string `json:"rule_id" example:"geo_velocity@@1698753600000"`
	RuleName string `json:"rule_name" example:"geo_velocity_Detection"`

	// StartTime is the timestamp of the first matched event
	StartTime time.Time `json:"start_time"`

	// Fingerprint identifies structurally equivalent alerts for the
	// suppression window; empty when suppression is disabled.
	Fingerprint string `json:"fingerprint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewAlertFromDetection maps an enriched detection onto a fresh Alert.
// The mapping is 1:1: nothing is aggregated or merged at this boundary.
func NewAlertFromDetection(det *EnrichedDetection) (*Alert, error) {
	if det == nil {
		return nil, ErrNilDetection
	}
	if len(det.MatchedEvents) == 0 {
		return nil, ErrNoMatchedEvents
	}

	summary := ""
	if len(det.Reasoning) > 0 {
		summary = det.Reasoning[0]
	}

	eventIDs := make([]string, 0, len(det.MatchedEvents))
	for _, ev := range det.MatchedEvents {
		if ev != nil && ev.ID != "" {
			eventIDs = append(eventIDs, ev.ID)
		}
	}

	now := time.Now().UTC()
	alert := &Alert{
		AlertID:         uuid.New().String(),
		Timestamp:       now,
		Status:          AlertStatusPending,
		Summary:         summary,
		Severity:        det.Severity,
		Priority:        SeverityToPriority(det.Severity),
		Confidence:      det.Confidence,
		Detector:        det.Detector,
		Signals:         det.Signals,
		MitreTactics:    det.MitreTactics,
		MitreTechniques: det.MitreTechniques,
		Reasoning:       det.Reasoning,
		EventIDs:        eventIDs,
		RiskScore:       det.RiskScore,
		RiskObject:      det.RiskObject,
		RiskObjectType:  det.RiskObjectType,
		RiskMessage:     det.RiskMessage,
		RuleID:          det.RuleID,
		RuleName:        det.RuleName,
		StartTime:       det.StartTime(),
		CreatedAt:       now,
	}
	alert.Fingerprint = alert.ComputeFingerprint()
	return alert, nil
}

// ComputeFingerprint hashes the stable identity of an alert: detector,
// risk object and the sorted signal set. Two alerts raised from the same
// standing condition hash identically even though their AlertID, RuleID
// timestamp and matched events differ.
func (a *Alert) ComputeFingerprint() string {
	signals := make([]string, len(a.Signals))
	copy(signals, a.Signals)
	sort.Strings(signals)

	h := sha256.New()
	h.Write([]byte(a.Detector))
	h.Write([]byte{0})
	h.Write([]byte(a.RiskObject))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(signals, ",")))
	return hex.EncodeToString(h.Sum(nil))
}
