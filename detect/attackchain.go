package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// chainState is the per-user position in the attack-chain machine
type chainState int

const (
	chainStart chainState = iota
	chainFailedLogin
	chainSuccessLogin
)

// AttackChainDetector replays each user's time-sorted events through a
// three-state machine: a failed login, then a successful login, then any
// activity from a configured sensitive source completes the chain. Events
// that don't match the expected transition are ignored without resetting
// the machine; it only advances on exact matches. At most one detection
// fires per completed chain, after which the machine returns to start.
type AttackChainDetector struct {
	policy *core.Policy
}

// NewAttackChainDetector constructs the detector from policy
func NewAttackChainDetector(policy *core.Policy) *AttackChainDetector {
	return &AttackChainDetector{policy: policy}
}

// Name implements Detector
func (d *AttackChainDetector) Name() string {
	return "attack_chain"
}

// Run implements Detector
func (d *AttackChainDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	groups, users := groupByUser(events)

	var detections []core.Detection
	for _, user := range users {
		detections = append(detections, d.replay(user, groups[user])...)
	}
	return detections
}

// replay runs one user's sorted sequence through the state machine.
// State is local to the call: the detector carries nothing between runs.
func (d *AttackChainDetector) replay(user string, seq []*core.UnifiedEvent) []core.Detection {
	var detections []core.Detection

	state := chainStart
	var chain []*core.UnifiedEvent

	for _, ev := range seq {
		switch state {
		case chainStart:
			if ev.EventType == core.EventTypeLoginFail {
				state = chainFailedLogin
				chain = []*core.UnifiedEvent{ev}
			}
		case chainFailedLogin:
			if ev.EventType == core.EventTypeLoginSuccess {
				if d.withinGap(chain[len(chain)-1], ev) {
					state = chainSuccessLogin
					chain = append(chain, ev)
				} else {
					// Gap exceeded: the stale chain is abandoned and the
					// machine waits for a fresh failure.
					state = chainStart
					chain = nil
				}
			}
		case chainSuccessLogin:
			if d.policy.IsSensitiveSource(ev.Source) {
				matched := make([]*core.UnifiedEvent, 0, len(chain)+1)
				matched = append(matched, chain...)
				matched = append(matched, ev)

				detections = append(detections, core.Detection{
					Detector:      d.Name(),
					MatchedEvents: matched,
					Signals:       []string{SignalAttackChain, SignalSuspiciousAuthSequence},
					Confidence:    0.85,
					MitreTactics:  []string{mitre.TacticCredentialAccess, mitre.TacticInitialAccess},
					MitreTechniques: []string{
						mitre.TechniqueBruteForce,
						mitre.TechniqueValidAccounts,
					},
					Reasoning: []string{
						fmt.Sprintf("User %s followed a failed login with a successful login and then %s activity (%s), completing a compromise chain",
							user, ev.Source, ev.EventType),
						fmt.Sprintf("Chain spans %d events from %s to %s",
							len(matched), matched[0].Timestamp.UTC().Format("15:04:05"), ev.Timestamp.UTC().Format("15:04:05")),
					},
				})

				// One alert per completed chain: no re-fire on further
				// sensitive actions until a new fail->success completes.
				state = chainStart
				chain = nil
			}
		}
	}
	return detections
}

// withinGap bounds the elapsed time between consecutive chain stages.
// A zero MaxChainGap disables the bound.
func (d *AttackChainDetector) withinGap(prev, next *core.UnifiedEvent) bool {
	if d.policy.MaxChainGap <= 0 {
		return true
	}
	return next.Timestamp.Sub(prev.Timestamp) <= d.policy.MaxChainGap
}
