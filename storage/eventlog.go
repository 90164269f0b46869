package storage

import (
	"sync"

	"github.com/google/uuid"

	"argus/core"
)

// EventLog is the in-memory unified-event history the service re-runs
// the engine over. Storage assigns event identifiers on append; events
// are treated as immutable once logged.
type EventLog struct {
	mu     sync.RWMutex
	events []*core.UnifiedEvent
}

// NewEventLog creates an empty event log
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append stores the event and assigns it an identifier if it has none
func (l *EventLog) Append(ev *core.UnifiedEvent) {
	if ev == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Snapshot returns a copy of the full event history. The engine always
// re-evaluates the complete history, not an incremental window.
func (l *EventLog) Snapshot() []*core.UnifiedEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make([]*core.UnifiedEvent, len(l.events))
	copy(snapshot, l.events)
	return snapshot
}

// Len returns the number of logged events
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
