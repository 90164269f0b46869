package core

// Severity bands classified from the enriched risk score
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Alert triage priorities derived from severity
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// AlertStatus represents the triage status of a persisted alert
type AlertStatus string

const (
	// AlertStatusPending indicates an alert that hasn't been reviewed
	AlertStatusPending AlertStatus = "Pending"
	// AlertStatusAcknowledged indicates an alert that has been reviewed and acknowledged
	AlertStatusAcknowledged AlertStatus = "Acknowledged"
	// AlertStatusClosed indicates an alert that requires no further action
	AlertStatusClosed AlertStatus = "Closed"
)

// String returns the string representation of the alert status
func (s AlertStatus) String() string {
	return string(s)
}

// IsValid checks if the alert status is a known value
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusPending, AlertStatusAcknowledged, AlertStatusClosed:
		return true
	}
	return false
}

// SeverityToPriority maps a severity band onto a triage priority.
// Critical alerts are worked first, High alerts next, everything else
// falls into the normal queue.
func SeverityToPriority(severity string) string {
	switch severity {
	case SeverityCritical:
		return PriorityHigh
	case SeverityHigh:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
