// Package detect implements the Argus detection and correlation engine:
// the detector roster, the per-detector correlation algorithms and the
// alert-enrichment pipeline.
package detect

import (
	"sort"

	"argus/core"
	"argus/threat"
)

// Detector is a single unit of detection logic. Run must be a pure
// function of its input batch: no state carried between invocations,
// callers always pass the full relevant event history. Detectors tolerate
// events missing any optional field and skip non-matching events; they
// never fail the batch.
type Detector interface {
	// Name identifies the detector on its detections and alerts
	Name() string

	// Run evaluates the batch and yields zero or more detections
	Run(events []*core.UnifiedEvent) []core.Detection
}

// DefaultRoster constructs the fixed detector set in registration order.
// The order is part of the engine contract: detection output is
// concatenated in roster order, never re-sorted.
func DefaultRoster(policy *core.Policy, intel *threat.IntelSet) []Detector {
	return []Detector{
		NewGeoVelocityDetector(policy),
		NewAttackChainDetector(policy),
		NewSequenceAnomalyDetector(policy),
		NewThreatIntelDetector(intel),
		NewReconDetector(policy),
		NewCredentialHarvestingDetector(policy),
		NewLateralMovementDetector(policy),
		NewExfiltrationDetector(policy),
		NewPersistenceDetector(policy),
		NewDefenseEvasionDetector(policy),
		NewImpactDetector(policy),
	}
}

// sortByTimestamp orders events ascending by timestamp. Ties break on the
// storage ID so replays of the same batch group identically. The input
// slice is not modified; FSM and sequence detectors rely on this ordering
// for correctness, not performance.
func sortByTimestamp(events []*core.UnifiedEvent) []*core.UnifiedEvent {
	sorted := make([]*core.UnifiedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// groupByUser partitions events by actor user and time-sorts each
// partition. Events without a user are skipped. The returned keys slice is
// sorted so iteration order is deterministic across runs.
func groupByUser(events []*core.UnifiedEvent) (map[string][]*core.UnifiedEvent, []string) {
	groups := make(map[string][]*core.UnifiedEvent)
	for _, ev := range events {
		user := ev.User()
		if user == "" {
			continue
		}
		groups[user] = append(groups[user], ev)
	}

	keys := make([]string, 0, len(groups))
	for user := range groups {
		groups[user] = sortByTimestamp(groups[user])
		keys = append(keys, user)
	}
	sort.Strings(keys)
	return groups, keys
}

// groupBySourceIP partitions events by network source address and
// time-sorts each partition, mirroring groupByUser.
func groupBySourceIP(events []*core.UnifiedEvent) (map[string][]*core.UnifiedEvent, []string) {
	groups := make(map[string][]*core.UnifiedEvent)
	for _, ev := range events {
		ip := ev.SourceIP()
		if ip == "" {
			continue
		}
		groups[ip] = append(groups[ip], ev)
	}

	keys := make([]string, 0, len(groups))
	for ip := range groups {
		groups[ip] = sortByTimestamp(groups[ip])
		keys = append(keys, ip)
	}
	sort.Strings(keys)
	return groups, keys
}
