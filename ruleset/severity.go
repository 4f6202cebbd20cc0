// Package ruleset provides the rule metadata types shared by every lintstack
// component.
//
// This package contains the values that flow through configuration
// resolution: severities, rule entries with their opaque option payloads,
// and the interfaces plugins implement to contribute rules and presets.
//
// Key types:
//   - Severity: Rule activation level (OFF, WARN, ERROR)
//   - Options: Opaque option payload attached to a rule entry
//   - RuleEntry: One (RuleId, Severity, Options) declaration inside a layer
//   - Rule: Interface describing a registered rule implementation
//   - DefaultRule: Embeddable struct providing default Rule method implementations
//   - RuleSet: Interface for plugin registration and rule enumeration
//   - BuiltinRuleSet: Embeddable struct providing default RuleSet implementations
package ruleset

import (
	"fmt"
	"strings"
)

// Severity represents the activation level of a rule.
// Merging never takes the maximum severity; the last applicable layer wins.
type Severity int

const (
	// OFF disables the rule.
	OFF Severity = iota
	// WARN reports findings without failing the run.
	WARN
	// ERROR reports findings and fails the run.
	ERROR
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case OFF:
		return "off"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether the severity turns the rule on.
func (s Severity) Active() bool {
	return s == WARN || s == ERROR
}

// ParseSeverity converts a configuration value to a Severity.
// Accepts "off", "warn", "warning", "error" in any case, and the numeric
// shorthands "0", "1" and "2".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return OFF, nil
	case "warn", "warning", "1":
		return WARN, nil
	case "error", "2":
		return ERROR, nil
	default:
		return OFF, fmt.Errorf("invalid severity %q: must be one of off, warn, error", s)
	}
}
