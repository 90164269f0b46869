package detect

import (
	"time"

	"argus/core"
)

// base is an arbitrary fixed instant; detectors only care about relative
// ordering and gaps
var base = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func events(evs ...*core.UnifiedEvent) []*core.UnifiedEvent {
	return evs
}

func loginEvent(user, eventType string, at time.Time, sourceIP, geo string) *core.UnifiedEvent {
	ev := core.NewUnifiedEvent(core.SourceAuth, eventType)
	ev.Timestamp = at
	ev.Actor = &core.Actor{User: user}
	if sourceIP != "" || geo != "" {
		ev.Network = &core.NetworkInfo{SourceIP: sourceIP, Geo: geo}
	}
	return ev
}

func processEvent(user, process string, at time.Time) *core.UnifiedEvent {
	ev := core.NewUnifiedEvent(core.SourceEndpoint, core.EventTypeProcessStart)
	ev.Timestamp = at
	ev.Actor = &core.Actor{User: user, Process: process}
	return ev
}

func networkEvent(sourceIP, destIP string, at time.Time, metadata map[string]interface{}) *core.UnifiedEvent {
	ev := core.NewUnifiedEvent(core.SourceNetwork, core.EventTypeNetworkConn)
	ev.Timestamp = at
	ev.Network = &core.NetworkInfo{SourceIP: sourceIP, DestIP: destIP}
	if metadata != nil {
		ev.Metadata = metadata
	}
	return ev
}

func cloudEvent(user, eventType string, at time.Time) *core.UnifiedEvent {
	ev := core.NewUnifiedEvent(core.SourceCloud, eventType)
	ev.Timestamp = at
	ev.Actor = &core.Actor{User: user}
	return ev
}
