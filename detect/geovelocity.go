package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// GeoVelocityDetector flags logins by the same user from different geo
// labels faster than travel allows. Any geo change is treated as a fixed
// nominal distance rather than a real geodesic computation; the policy
// carries both the distance and the speed ceiling.
type GeoVelocityDetector struct {
	nominalKm   float64
	maxSpeedKmh float64
}

// NewGeoVelocityDetector constructs the detector from policy
func NewGeoVelocityDetector(policy *core.Policy) *GeoVelocityDetector {
	return &GeoVelocityDetector{
		nominalKm:   policy.NominalTravelKm,
		maxSpeedKmh: policy.MaxTravelSpeedKmh,
	}
}

// Name implements Detector
func (d *GeoVelocityDetector) Name() string {
	return "geo_velocity"
}

// Run groups successful logins per user and inspects each adjacent pair in
// the time-sorted sequence. Pairs at zero elapsed time never fire: that is
// a division guard, not a flagged anomaly.
func (d *GeoVelocityDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	var logins []*core.UnifiedEvent
	for _, ev := range events {
		if ev.EventType == core.EventTypeLoginSuccess {
			logins = append(logins, ev)
		}
	}

	groups, users := groupByUser(logins)

	var detections []core.Detection
	for _, user := range users {
		seq := groups[user]
		for i := 1; i < len(seq); i++ {
			a, b := seq[i-1], seq[i]
			if a.Geo() == "" || b.Geo() == "" || a.Geo() == b.Geo() {
				continue
			}

			hours := b.Timestamp.Sub(a.Timestamp).Hours()
			if hours <= 0 {
				continue
			}
			velocity := d.nominalKm / hours
			if velocity <= d.maxSpeedKmh {
				continue
			}

			detections = append(detections, core.Detection{
				Detector:      d.Name(),
				MatchedEvents: []*core.UnifiedEvent{a, b},
				Signals:       []string{SignalImpossibleTravel, SignalAnomalousLoginVelocity},
				Confidence:    0.9,
				MitreTactics:  []string{mitre.TacticInitialAccess},
				MitreTechniques: []string{
					mitre.TechniqueValidAccounts,
				},
				Reasoning: []string{
					fmt.Sprintf("User %s logged in from %s and then %s %.1f hours apart, an apparent travel velocity of %.0f km/h (limit %.0f km/h)",
						user, a.Geo(), b.Geo(), hours, velocity, d.maxSpeedKmh),
					fmt.Sprintf("Geo change assessed at a nominal %.0f km", d.nominalKm),
				},
			})
		}
	}
	return detections
}
