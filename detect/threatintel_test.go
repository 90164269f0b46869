package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/core"
	"argus/threat"
)

func testIntel() *threat.IntelSet {
	return threat.NewIntelSet(
		[]string{"203.0.113.50"},
		[]string{"mimikatz", "cobaltstrike"},
	)
}

func TestThreatIntel_MaliciousIPFires(t *testing.T) {
	d := NewThreatIntelDetector(testIntel())

	ev := loginEvent("alice", "LOGIN_SUCCESS", base, "203.0.113.50", "US")
	detections := d.Run(events(ev))

	require.Len(t, detections, 1)
	assert.Equal(t, "threat_intel", detections[0].Detector)
	assert.Equal(t, 0.9, detections[0].Confidence)
	assert.Contains(t, detections[0].Signals, SignalIntelMaliciousIP)
	assert.NotContains(t, detections[0].Signals, SignalIntelSuspiciousProcess)
}

func TestThreatIntel_SuspiciousProcessFires(t *testing.T) {
	d := NewThreatIntelDetector(testIntel())

	ev := processEvent("alice", "C:\\tools\\Mimikatz.exe", base)
	detections := d.Run(events(ev))

	require.Len(t, detections, 1)
	assert.Contains(t, detections[0].Signals, SignalIntelSuspiciousProcess)
	assert.NotContains(t, detections[0].Signals, SignalIntelMaliciousIP)
}

func TestThreatIntel_BothIndicatorsOnOneEvent(t *testing.T) {
	d := NewThreatIntelDetector(testIntel())

	ev := processEvent("alice", "mimikatz.exe", base)
	ev.Network = &core.NetworkInfo{SourceIP: "203.0.113.50"}
	detections := d.Run(events(ev))

	// Still one detection per event, carrying both signals
	require.Len(t, detections, 1)
	assert.Contains(t, detections[0].Signals, SignalIntelMaliciousIP)
	assert.Contains(t, detections[0].Signals, SignalIntelSuspiciousProcess)
}

func TestThreatIntel_CleanEventsProduceNothing(t *testing.T) {
	d := NewThreatIntelDetector(testIntel())

	evs := events(
		loginEvent("alice", "LOGIN_SUCCESS", base, "10.0.0.4", "US"),
		processEvent("bob", "notepad.exe", base.Add(time.Minute)),
	)

	assert.Empty(t, d.Run(evs))
}

func TestThreatIntel_EachMatchingEventFiresSeparately(t *testing.T) {
	d := NewThreatIntelDetector(testIntel())

	evs := events(
		loginEvent("alice", "LOGIN_FAIL", base, "203.0.113.50", "US"),
		loginEvent("alice", "LOGIN_FAIL", base.Add(time.Second), "203.0.113.50", "US"),
	)

	detections := d.Run(evs)
	require.Len(t, detections, 2)
	for _, det := range detections {
		assert.Len(t, det.MatchedEvents, 1)
	}
}
