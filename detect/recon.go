package detect

import (
	"fmt"

	"argus/core"
	"argus/mitre"
)

// ReconDetector covers the reconnaissance category: discovery tooling by
// keyword, port-scan detection by distinct-port aggregation, and DNS
// enumeration by query volume. Each rule fires independently.
type ReconDetector struct {
	policy *core.Policy
	rules  []keywordRule
}

// NewReconDetector constructs the detector from policy
func NewReconDetector(policy *core.Policy) *ReconDetector {
	return &ReconDetector{
		policy: policy,
		rules: []keywordRule{
			{
				name: "Network scanning tool",
				indicators: []string{
					"nmap", "masscan", "zmap", "nikto", "gobuster", "dirb",
				},
				signals:    []string{SignalReconnaissance, SignalDiscoveryTool},
				confidence: 0.8,
				tactics:    []string{mitre.TacticReconnaissance},
				techniques: []string{mitre.TechniqueActiveScanning},
			},
			{
				name: "Host and domain discovery command",
				indicators: []string{
					"whoami", "net view", "net group", "net user /domain",
					"nltest", "arp -a", "systeminfo", "dsquery",
				},
				signals:    []string{SignalReconnaissance, SignalDiscoveryTool},
				confidence: 0.65,
				tactics:    []string{mitre.TacticDiscovery},
				techniques: []string{mitre.TechniqueAccountDiscovery},
			},
		},
	}
}

// Name implements Detector
func (d *ReconDetector) Name() string {
	return "reconnaissance"
}

// Run implements Detector
func (d *ReconDetector) Run(events []*core.UnifiedEvent) []core.Detection {
	detections := runKeywordRules(d.Name(), events, d.rules)
	detections = append(detections, d.portScans(events)...)
	detections = append(detections, d.dnsEnumeration(events)...)
	return detections
}

// portScans fires when one source address touches at least the configured
// number of distinct destination ports
func (d *ReconDetector) portScans(events []*core.UnifiedEvent) []core.Detection {
	var netEvents []*core.UnifiedEvent
	for _, ev := range events {
		if ev.EventType == core.EventTypeNetworkConn {
			netEvents = append(netEvents, ev)
		}
	}
	groups, ips := groupBySourceIP(netEvents)

	var detections []core.Detection
	for _, ip := range ips {
		group := groups[ip]
		ports := distinctMetadataValues(group, "dest_port")
		if len(ports) < d.policy.PortScanThreshold {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   group,
			Signals:         []string{SignalPortScan, SignalReconnaissance},
			Confidence:      0.8,
			MitreTactics:    []string{mitre.TacticReconnaissance},
			MitreTechniques: []string{mitre.TechniqueNetworkServiceScan},
			Reasoning: []string{
				fmt.Sprintf("Source %s touched %d distinct destination ports (threshold %d)",
					ip, len(ports), d.policy.PortScanThreshold),
			},
		})
	}
	return detections
}

// dnsEnumeration fires on DNS query volume per source address
func (d *ReconDetector) dnsEnumeration(events []*core.UnifiedEvent) []core.Detection {
	var dnsEvents []*core.UnifiedEvent
	for _, ev := range events {
		if ev.EventType == core.EventTypeDNSQuery {
			dnsEvents = append(dnsEvents, ev)
		}
	}
	groups, ips := groupBySourceIP(dnsEvents)

	var detections []core.Detection
	for _, ip := range ips {
		group := groups[ip]
		if len(group) < d.policy.DNSQueryThreshold {
			continue
		}
		detections = append(detections, core.Detection{
			Detector:        d.Name(),
			MatchedEvents:   group,
			Signals:         []string{SignalDNSEnumeration, SignalReconnaissance},
			Confidence:      0.65,
			MitreTactics:    []string{mitre.TacticReconnaissance},
			MitreTechniques: []string{mitre.TechniqueActiveScanning},
			Reasoning: []string{
				fmt.Sprintf("Source %s issued %d DNS queries (threshold %d)",
					ip, len(group), d.policy.DNSQueryThreshold),
			},
		})
	}
	return detections
}
