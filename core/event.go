package core

import (
	"strconv"
	"strings"
	"time"
)

// EventSource identifies the telemetry family that produced an event.
type EventSource string

const (
	// SourceAuth covers authentication telemetry (logins, MFA, lockouts)
	SourceAuth EventSource = "auth"
	// SourceEndpoint covers host telemetry (process starts, file activity)
	SourceEndpoint EventSource = "endpoint"
	// SourceNetwork covers network telemetry (connections, DNS, transfers)
	SourceNetwork EventSource = "network"
	// SourceCloud covers cloud control-plane telemetry (API calls, IAM changes)
	SourceCloud EventSource = "cloud"
)

// String returns the string representation of the event source
func (s EventSource) String() string {
	return string(s)
}

// IsValid checks if the event source is one of the known families
func (s EventSource) IsValid() bool {
	switch s {
	case SourceAuth, SourceEndpoint, SourceNetwork, SourceCloud:
		return true
	}
	return false
}

// Well-known event types emitted by the normalization adapters.
// EventType is an open string; these are the values the correlation
// detectors key on.
const (
	EventTypeLoginFail    = "LOGIN_FAIL"
	EventTypeLoginSuccess = "LOGIN_SUCCESS"
	EventTypeProcessStart = "PROCESS_START"
	EventTypeNetworkConn  = "NETWORK_CONNECTION"
	EventTypeDNSQuery     = "DNS_QUERY"
	EventTypeFileModified = "FILE_MODIFIED"
	EventTypeCloudAPICall = "CLOUD_API_CALL"
)

// Actor identifies who or what generated an event
type Actor struct {
	User    string `json:"user,omitempty" example:"jsmith"`
	Process string `json:"process,omitempty" example:"powershell.exe"`
	Service string `json:"service,omitempty" example:"sshd"`
}

// NetworkInfo carries the network coordinates of an event
type NetworkInfo struct {
	SourceIP string `json:"source_ip,omitempty" example:"10.20.30.40"`
	DestIP   string `json:"dest_ip,omitempty" example:"192.168.1.5"`
	Geo      string `json:"geo,omitempty" example:"US-East"`
}

// UnifiedEvent is the canonical event shape every detector consumes.
// Source adapters normalize vendor logs into this shape before the engine
// ever sees them; detectors never mutate an event after creation and must
// tolerate any optional field being absent.
type UnifiedEvent struct {
	// ID is assigned by the storage collaborator; empty until persisted.
	ID        string      `json:"id,omitempty" example:"event-123"`
	Timestamp time.Time   `json:"timestamp" example:"2023-10-31T12:00:00Z"`
	Source    EventSource `json:"source" example:"auth"`
	EventType string      `json:"event_type" example:"LOGIN_FAIL"`

	Actor   *Actor       `json:"actor,omitempty"`
	Network *NetworkInfo `json:"network,omitempty"`

	// SeverityHint and ConfidenceHint are adapter-assigned priors.
	// Informational only: detectors do not trust them for scoring.
	SeverityHint   string  `json:"severity_hint,omitempty" example:"info"`
	ConfidenceHint float64 `json:"confidence_hint,omitempty" example:"0.5"`

	// Metadata is an open bag of source-specific fields (bytes transferred,
	// ports, hashes, parent process) plus the original raw record for audit.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewUnifiedEvent creates a new UnifiedEvent with an initialized metadata map
func NewUnifiedEvent(source EventSource, eventType string) *UnifiedEvent {
	return &UnifiedEvent{
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Metadata:  make(map[string]interface{}),
	}
}

// User returns the actor's user name, or "" when no actor is attached
func (e *UnifiedEvent) User() string {
	if e.Actor == nil {
		return ""
	}
	return e.Actor.User
}

// Process returns the actor's process name, or "" when no actor is attached
func (e *UnifiedEvent) Process() string {
	if e.Actor == nil {
		return ""
	}
	return e.Actor.Process
}

// SourceIP returns the network source address, or "" when absent
func (e *UnifiedEvent) SourceIP() string {
	if e.Network == nil {
		return ""
	}
	return e.Network.SourceIP
}

// DestIP returns the network destination address, or "" when absent
func (e *UnifiedEvent) DestIP() string {
	if e.Network == nil {
		return ""
	}
	return e.Network.DestIP
}

// Geo returns the geo label of the event's network block, or "" when absent
func (e *UnifiedEvent) Geo() string {
	if e.Network == nil {
		return ""
	}
	return e.Network.Geo
}

// MetadataString returns the metadata value under key coerced to a string.
// Non-string scalars are formatted; missing keys return "".
func (e *UnifiedEvent) MetadataString(key string) string {
	if e.Metadata == nil {
		return ""
	}
	switch v := e.Metadata[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// MetadataNumber returns the metadata value under key coerced to a float64.
// Adapters attach heterogeneous types (JSON numbers decode as float64,
// programmatic producers may use ints, some ship numerics as strings), so
// every numeric comparison in a detector goes through this coercion.
func (e *UnifiedEvent) MetadataNumber(key string) (float64, bool) {
	if e.Metadata == nil {
		return 0, false
	}
	switch v := e.Metadata[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
