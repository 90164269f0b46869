// Package storage provides the persistence collaborators behind the
// detection engine: the alert stores, the suppression window and the
// in-memory event log the service re-evaluates each run.
package storage

import (
	"context"
	"errors"

	"argus/core"
)

// ErrAlertNotFound is returned when an alert lookup misses
var ErrAlertNotFound = errors.New("alert not found")

// ErrNilAlert is returned when a nil alert reaches a store
var ErrNilAlert = errors.New("alert cannot be nil")

// AlertStore persists and retrieves alert records
type AlertStore interface {
	// InsertAlert persists a new alert
	InsertAlert(ctx context.Context, alert *core.Alert) error

	// GetAlertByID retrieves a single alert.
	// Returns ErrAlertNotFound when it doesn't exist.
	GetAlertByID(ctx context.Context, alertID string) (*core.Alert, error)

	// ListAlerts retrieves alerts newest-first with paging
	ListAlerts(ctx context.Context, limit, offset int) ([]*core.Alert, error)

	// CountAlerts returns the total number of stored alerts
	CountAlerts(ctx context.Context) (int64, error)

	// Close releases the store's resources
	Close() error
}
