package storage

import (
	"context"
	"sort"
	"sync"

	"argus/core"
)

// MemoryStore is an in-memory AlertStore for tests and the replay CLI
type MemoryStore struct {
	mu     sync.RWMutex
	alerts []*core.Alert
	byID   map[string]*core.Alert
}

// NewMemoryStore creates an empty in-memory alert store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*core.Alert)}
}

// InsertAlert implements AlertStore
func (m *MemoryStore) InsertAlert(_ context.Context, alert *core.Alert) error {
	if alert == nil {
		return ErrNilAlert
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *alert
	m.alerts = append(m.alerts, &stored)
	m.byID[stored.AlertID] = &stored
	return nil
}

// GetAlertByID implements AlertStore
func (m *MemoryStore) GetAlertByID(_ context.Context, alertID string) (*core.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	alert, ok := m.byID[alertID]
	if !ok {
		return nil, ErrAlertNotFound
	}
	copied := *alert
	return &copied, nil
}

// ListAlerts implements AlertStore, newest first
func (m *MemoryStore) ListAlerts(_ context.Context, limit, offset int) ([]*core.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := make([]*core.Alert, len(m.alerts))
	copy(sorted, m.alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	out := make([]*core.Alert, len(sorted))
	for i, alert := range sorted {
		copied := *alert
		out[i] = &copied
	}
	return out, nil
}

// CountAlerts implements AlertStore
func (m *MemoryStore) CountAlerts(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.alerts)), nil
}

// Close implements AlertStore
func (m *MemoryStore) Close() error {
	return nil
}
