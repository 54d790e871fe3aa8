// Package changes provides domain types for classifying changed files.
package changes

import (
	"fmt"
	"strings"
)

// Severity ranks how dangerous a change is to ship.
type Severity string

const (
	// SeverityLow indicates a change with negligible deployment risk.
	SeverityLow Severity = "LOW"
	// SeverityMedium indicates a change that warrants review.
	SeverityMedium Severity = "MEDIUM"
	// SeverityHigh indicates a change likely to affect dependents.
	SeverityHigh Severity = "HIGH"
	// SeverityCritical indicates a change that can break running traffic.
	SeverityCritical Severity = "CRITICAL"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid returns true if the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Rank returns the numeric ordering of the severity.
// Higher values are more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether the severity is at or above the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// MaxSeverity returns the higher of two severities.
func MaxSeverity(a, b Severity) Severity {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// ParseSeverity parses a string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if !sev.IsValid() {
		return "", fmt.Errorf("invalid severity: %q", s)
	}
	return sev, nil
}

// SeverityForScore buckets a numeric risk score into a severity level.
// Boundary values map to the lower bucket.
func SeverityForScore(score int) Severity {
	switch {
	case score > 200:
		return SeverityCritical
	case score > 100:
		return SeverityHigh
	case score > 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
