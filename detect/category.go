package detect

import (
	"fmt"
	"strings"

	"argus/core"
)

// keywordRule is one substring rule inside a category detector: a curated
// list of attacker tool names or command fragments checked against the
// event's process name and command-like metadata fields. Rules are
// independent; a single event may trigger several rules of one detector.
type keywordRule struct {
	name       string
	indicators []string
	signals    []string
	confidence float64
	tactics    []string
	techniques []string
}

// commandFields are the metadata keys a keyword rule scans in addition to
// the actor process name
var commandFields = []string{"action", "command_line"}

// runKeywordRules evaluates every rule against every event independently
func runKeywordRules(detector string, events []*core.UnifiedEvent, rules []keywordRule) []core.Detection {
	var detections []core.Detection
	for _, ev := range events {
		for i := range rules {
			rule := &rules[i]
			field, value, indicator, ok := matchKeywordRule(ev, rule)
			if !ok {
				continue
			}
			detections = append(detections, core.Detection{
				Detector:        detector,
				MatchedEvents:   []*core.UnifiedEvent{ev},
				Signals:         rule.signals,
				Confidence:      rule.confidence,
				MitreTactics:    rule.tactics,
				MitreTechniques: rule.techniques,
				Reasoning: []string{
					fmt.Sprintf("%s: %s %q matched indicator %q", rule.name, field, value, indicator),
				},
			})
		}
	}
	return detections
}

// matchKeywordRule checks one event against one rule and reports which
// field and indicator matched
func matchKeywordRule(ev *core.UnifiedEvent, rule *keywordRule) (field, value, indicator string, ok bool) {
	if proc := ev.Process(); proc != "" {
		if ind, matched := containsIndicator(proc, rule.indicators); matched {
			return "process", proc, ind, true
		}
	}
	for _, key := range commandFields {
		if v := ev.MetadataString(key); v != "" {
			if ind, matched := containsIndicator(v, rule.indicators); matched {
				return key, v, ind, true
			}
		}
	}
	return "", "", "", false
}

// containsIndicator is a case-insensitive substring scan; indicators are
// stored lower-cased at rule definition
func containsIndicator(value string, indicators []string) (string, bool) {
	lowered := strings.ToLower(value)
	for _, indicator := range indicators {
		if strings.Contains(lowered, indicator) {
			return indicator, true
		}
	}
	return "", false
}

// distinctMetadataValues counts distinct string renderings of a metadata
// key across a group of events
func distinctMetadataValues(events []*core.UnifiedEvent, key string) map[string]struct{} {
	values := make(map[string]struct{})
	for _, ev := range events {
		if v := ev.MetadataString(key); v != "" {
			values[v] = struct{}{}
		}
	}
	return values
}
