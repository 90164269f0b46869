// Package cmd provides the Argus command-line commands.
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"argus/core"
	"argus/detect"
	"argus/storage"
	"argus/threat"
)

// CLI output formatters
var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgRed)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
	headerColor   = color.New(color.FgBlue, color.Bold)
)

// maxReplayFileSize bounds the replay input to protect against memory
// exhaustion from an oversized file
const maxReplayFileSize = 64 * 1024 * 1024

// NewReplayCmd creates the replay command: run the detection engine once
// over an NDJSON file of unified events and print the resulting alerts.
func NewReplayCmd() *cobra.Command {
	var policyPath string
	var outputJSON bool
	var workers int

	cmd := &cobra.Command{
		Use:   "replay <events.ndjson>",
		Short: "Replay a unified-event file through the detection engine",
		Long: `Reads one JSON-encoded unified event per line, runs the full detector
roster over the batch and prints the enriched detections, ranked by risk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], policyPath, outputJSON, workers)
		},
	}

	cmd.Flags().StringVar(&policyPath, "policy", "", "YAML policy file (default: built-in policy)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "emit detections as JSON instead of text")
	cmd.Flags().IntVar(&workers, "workers", 4, "detector goroutines")
	return cmd
}

func runReplay(cmd *cobra.Command, path, policyPath string, outputJSON bool, workers int) error {
	events, err := loadEvents(path)
	if err != nil {
		return err
	}

	policy := core.DefaultPolicy()
	if policyPath != "" {
		policy, err = core.LoadPolicy(policyPath)
		if err != nil {
			return err
		}
	}

	intel := threat.NewIntelSet(policy.MaliciousIPs, policy.MaliciousProcesses)
	store := storage.NewMemoryStore()
	sink := storage.NewAlertWriterSink(store, nil, zap.NewNop().Sugar())
	engine := detect.NewEngine(detect.DefaultRoster(policy, intel), sink, zap.NewNop().Sugar(), workers, policy.MinConfidence)

	detections := engine.RunDetections(context.Background(), events)
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].RiskScore > detections[j].RiskScore
	})

	if outputJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(detections)
	}

	out := cmd.OutOrStdout()
	headerColor.Fprintf(out, "Replayed %d events, %d detections\n\n", len(events), len(detections))
	for i := range detections {
		det := &detections[i]
		severityColorFor(det.Severity).Fprintf(out, "[%s]", det.Severity)
		fmt.Fprintf(out, " %s risk=%.0f object=%s\n", det.Detector, det.RiskScore, det.RiskObject)
		if len(det.Reasoning) > 0 {
			fmt.Fprintf(out, "    %s\n", det.Reasoning[0])
		}
	}
	return nil
}

// loadEvents reads one unified event per line, skipping blank lines
func loadEvents(path string) ([]*core.UnifiedEvent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > maxReplayFileSize {
		return nil, fmt.Errorf("file %s exceeds %d byte replay limit", path, maxReplayFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var events []*core.UnifiedEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event core.UnifiedEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("failed to parse event on line %d: %w", lineNo, err)
		}
		events = append(events, &event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return events, nil
}

func severityColorFor(severity string) *color.Color {
	switch severity {
	case core.SeverityCritical:
		return criticalColor
	case core.SeverityHigh:
		return highColor
	case core.SeverityMedium:
		return mediumColor
	default:
		return lowColor
	}
}
