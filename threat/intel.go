// Package threat holds the threat-intelligence indicator sets the
// intel-match detector consults.
package threat

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// processCacheSize bounds the memoized process-name lookups. Process names
// repeat heavily across an event batch, so even a small cache removes most
// of the substring scans.
const processCacheSize = 4096

// processCacheTTL expires memoized lookups so a rebuilt IntelSet in a
// long-lived process doesn't serve stale verdicts forever.
const processCacheTTL = 10 * time.Minute

// IntelSet is an immutable snapshot of the configured indicators: an
// exact-match set of malicious source addresses and a list of lower-cased
// process-name substrings. Empty sets are valid and never match.
type IntelSet struct {
	ips               map[string]struct{}
	processIndicators []string
	processCache      *expirable.LRU[string, string]
}

// NewIntelSet builds an IntelSet from raw indicator lists. Indicator
// normalization (trimming, lower-casing substrings) happens once here so
// per-event lookups stay cheap.
func NewIntelSet(ips []string, processes []string) *IntelSet {
	s := &IntelSet{
		ips:          make(map[string]struct{}, len(ips)),
		processCache: expirable.NewLRU[string, string](processCacheSize, nil, processCacheTTL),
	}
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			s.ips[ip] = struct{}{}
		}
	}
	for _, proc := range processes {
		proc = strings.ToLower(strings.TrimSpace(proc))
		if proc != "" {
			s.processIndicators = append(s.processIndicators, proc)
		}
	}
	return s
}

// MaliciousIP reports whether the address is a known-malicious indicator
func (s *IntelSet) MaliciousIP(ip string) bool {
	if ip == "" {
		return false
	}
	_, ok := s.ips[ip]
	return ok
}

// MatchProcess checks a process name against the malicious substring list
// and returns the first matching indicator. Lookups are memoized with a
// TTL-bounded LRU keyed on the lower-cased name.
func (s *IntelSet) MatchProcess(process string) (string, bool) {
	if process == "" || len(s.processIndicators) == 0 {
		return "", false
	}
	key := strings.ToLower(process)

	if indicator, ok := s.processCache.Get(key); ok {
		return indicator, indicator != ""
	}

	matched := ""
	for _, indicator := range s.processIndicators {
		if strings.Contains(key, indicator) {
			matched = indicator
			break
		}
	}
	s.processCache.Add(key, matched)
	return matched, matched != ""
}

// Size returns the indicator counts, for startup logging
func (s *IntelSet) Size() (ipCount, processCount int) {
	return len(s.ips), len(s.processIndicators)
}
