// Package crisis classifies free-form text against a static taxonomy of
// crisis-relevant language. The classifier is stateless after construction
// and cheap enough to run on every keystroke above the caller's minimum
// length threshold.
package crisis

import (
	"fmt"
	"strings"
)

// Severity is a total-ordered tier: None < Low < Medium < High < Critical.
// Kept as an int enum rather than string tiers so comparisons stay correct
// if more tiers are added.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = []string{"none", "low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < SeverityNone || int(s) >= len(severityNames) {
		return "none"
	}
	return severityNames[s]
}

// MarshalJSON serializes the tier as its wire label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts the wire labels produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a tier label.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityNone, fmt.Errorf("crisis: unknown severity %q", s)
	}
}
