package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultPolicyIsValid(t *testing.T) {
	policy := DefaultPolicy()
	require.NoError(t, policy.Validate())

	assert.Equal(t, 900.0, policy.MaxTravelSpeedKmh)
	assert.Equal(t, 1000.0, policy.NominalTravelKm)
	assert.Equal(t, 10, policy.PortScanThreshold)
	assert.Equal(t, int64(100*1024*1024), policy.ExfilBytesThreshold)
	assert.True(t, policy.IsSensitiveSource(SourceCloud))
	assert.True(t, policy.IsSensitiveSource(SourceEndpoint))
	assert.False(t, policy.IsSensitiveSource(SourceAuth))
}

func TestLoadPolicyOverlaysDefaults(t *testing.T) {
	path := writePolicyFile(t, `
max_travel_speed_kmh: 500
port_scan_threshold: 20
malicious_ips:
  - 203.0.113.50
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 500.0, policy.MaxTravelSpeedKmh)
	assert.Equal(t, 20, policy.PortScanThreshold)
	assert.Equal(t, []string{"203.0.113.50"}, policy.MaliciousIPs)

	// Fields absent from the file keep their defaults
	assert.Equal(t, 1000.0, policy.NominalTravelKm)
	assert.Equal(t, 5, policy.SprayAccountThreshold)
}

func TestLoadPolicyRejectsInvalidThresholds(t *testing.T) {
	path := writePolicyFile(t, "port_scan_threshold: 0\n")

	_, err := LoadPolicy(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid policy")
}

func TestLoadPolicyRejectsUnknownSensitiveSource(t *testing.T) {
	path := writePolicyFile(t, "sensitive_sources: [cloud, mainframe]\n")

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicyMalformedYAML(t *testing.T) {
	path := writePolicyFile(t, "port_scan_threshold: [not, a, number\n")

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}
