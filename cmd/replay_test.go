package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/core"
)

func writeEventFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.ndjson")
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func runReplayCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewReplayCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayDetectsFromFile(t *testing.T) {
	path := writeEventFile(t,
		`{"source":"endpoint","event_type":"PROCESS_START","timestamp":"2024-03-15T12:00:00Z","actor":{"user":"alice","process":"mimikatz.exe"}}`)

	out, err := runReplayCmd(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Replayed 1 events")
	assert.Contains(t, out, "credential_harvesting")
}

func TestReplayJSONOutput(t *testing.T) {
	path := writeEventFile(t,
		`{"source":"endpoint","event_type":"PROCESS_START","timestamp":"2024-03-15T12:00:00Z","actor":{"user":"alice","process":"mimikatz.exe"}}`)

	out, err := runReplayCmd(t, path, "--json")
	require.NoError(t, err)

	var detections []core.EnrichedDetection
	require.NoError(t, json.Unmarshal([]byte(out), &detections))
	require.NotEmpty(t, detections)

	detectors := map[string]bool{}
	for _, det := range detections {
		detectors[det.Detector] = true
	}
	// mimikatz trips credential harvesting and the built-in intel list
	assert.True(t, detectors["credential_harvesting"])
	assert.True(t, detectors["threat_intel"])
}

func TestReplayRankedByRisk(t *testing.T) {
	path := writeEventFile(t,
		`{"source":"endpoint","event_type":"PROCESS_START","timestamp":"2024-03-15T12:00:00Z","actor":{"user":"alice","process":"nmap"}}`,
		`{"source":"endpoint","event_type":"PROCESS_START","timestamp":"2024-03-15T12:01:00Z","actor":{"user":"alice","process":"mimikatz.exe"}}`)

	out, err := runReplayCmd(t, path, "--json")
	require.NoError(t, err)

	var detections []core.EnrichedDetection
	require.NoError(t, json.Unmarshal([]byte(out), &detections))
	require.True(t, len(detections) >= 2)
	for i := 1; i < len(detections); i++ {
		assert.GreaterOrEqual(t, detections[i-1].RiskScore, detections[i].RiskScore)
	}
}

func TestReplayCustomPolicy(t *testing.T) {
	policyPath := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(policyPath, []byte("min_confidence: 0.95\n"), 0644))

	path := writeEventFile(t,
		`{"source":"endpoint","event_type":"PROCESS_START","timestamp":"2024-03-15T12:00:00Z","actor":{"user":"alice","process":"nmap"}}`)

	out, err := runReplayCmd(t, path, "--policy", policyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 detections")
}

func TestReplayRejectsMalformedLine(t *testing.T) {
	path := writeEventFile(t, `{broken`)

	_, err := runReplayCmd(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReplayMissingFile(t *testing.T) {
	_, err := runReplayCmd(t, filepath.Join(t.TempDir(), "absent.ndjson"))
	assert.Error(t, err)
}
