package core

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Policy bundles the tunable thresholds and indicator lists the detectors
// are constructed with. Changing a policy requires reconstructing the
// affected detectors; there is no hot-reload contract.
//
// Empty indicator lists are valid configuration, not an error: the rules
// they feed simply never match.
type Policy struct {
	// MaxTravelSpeedKmh is the velocity above which a geo change between
	// two logins is considered impossible travel (commercial flight ceiling).
	MaxTravelSpeedKmh float64 `yaml:"max_travel_speed_kmh" validate:"gt=0"`

	// NominalTravelKm is the fixed distance assumed for any geo label
	// change. A placeholder for real geodesic distance, preserved for
	// compatibility with existing tuning.
	NominalTravelKm float64 `yaml:"nominal_travel_km" validate:"gt=0"`

	// MinConfidence drops detections below this confidence at the engine
	MinConfidence float64 `yaml:"min_confidence" validate:"gte=0,lte=1"`

	// SensitiveSources are the event-source families whose activity after
	// a fail->success login chain completes an attack chain.
	SensitiveSources []EventSource `yaml:"sensitive_sources" validate:"dive,oneof=auth endpoint network cloud"`

	// MaxChainGap bounds the elapsed time between the stages of an attack
	// chain; zero disables the bound.
	MaxChainGap time.Duration `yaml:"max_chain_gap"`

	// MaliciousIPs and MaliciousProcesses are the threat-intel indicator
	// sets: exact-match source addresses and lower-cased process-name
	// substrings respectively.
	MaliciousIPs       []string `yaml:"malicious_ips"`
	MaliciousProcesses []string `yaml:"malicious_processes"`

	// DiscoveryProcesses and FollowOnProcesses feed the adjacent-sequence
	// matcher: a discovery tool immediately followed by one of the
	// follow-on tools for the same user is suspicious.
	DiscoveryProcesses []string `yaml:"discovery_processes"`
	FollowOnProcesses  []string `yaml:"follow_on_processes"`

	// Aggregation cutoffs
	PortScanThreshold       int `yaml:"port_scan_threshold" validate:"gt=0"`
	DNSQueryThreshold       int `yaml:"dns_query_threshold" validate:"gt=0"`
	SprayAccountThreshold   int `yaml:"spray_account_threshold" validate:"gt=0"`
	SprayFailureThreshold   int `yaml:"spray_failure_threshold" validate:"gt=0"`
	LateralHostThreshold    int `yaml:"lateral_host_threshold" validate:"gt=0"`
	RansomwareFileThreshold int `yaml:"ransomware_file_threshold" validate:"gt=0"`

	// ExfilBytesThreshold is the transfer size above which a single
	// network/cloud event is flagged as bulk exfiltration.
	ExfilBytesThreshold int64 `yaml:"exfil_bytes_threshold" validate:"gt=0"`
}

// DefaultPolicy returns the policy the engine ships with
func DefaultPolicy() *Policy {
	return &Policy{
		MaxTravelSpeedKmh: 900,
		NominalTravelKm:   1000,
		MinConfidence:     0,
		SensitiveSources:  []EventSource{SourceCloud, SourceEndpoint},
		MaxChainGap:       0,
		MaliciousIPs:      []string{},
		MaliciousProcesses: []string{
			"mimikatz", "cobaltstrike", "meterpreter", "empire", "netcat",
		},
		DiscoveryProcesses: []string{
			"whoami", "net view", "net group", "nltest", "ipconfig", "systeminfo",
		},
		FollowOnProcesses: []string{
			"powershell", "psexec", "wmic", "mimikatz", "certutil", "rundll32",
		},
		PortScanThreshold:       10,
		DNSQueryThreshold:       50,
		SprayAccountThreshold:   5,
		SprayFailureThreshold:   5,
		LateralHostThreshold:    5,
		RansomwareFileThreshold: 1000,
		ExfilBytesThreshold:     100 * 1024 * 1024,
	}
}

// policyValidator is shared; validator.Validate is safe for concurrent use
var policyValidator = validator.New()

// Validate checks the policy's structural constraints
func (p *Policy) Validate() error {
	if err := policyValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	return nil
}

// LoadPolicy reads a YAML policy file over the defaults: fields absent
// from the file keep their default values.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// IsSensitiveSource reports whether the source is in the configured
// sensitive-source set
func (p *Policy) IsSensitiveSource(source EventSource) bool {
	for _, s := range p.SensitiveSources {
		if s == source {
			return true
		}
	}
	return false
}
