package ruleset

import (
	"fmt"
	"strings"
)

// MergeMode controls how an entry's payload combines with options declared
// by earlier layers for the same rule.
type MergeMode int

const (
	// MergeDefault defers to the rule's own default (see MergeDefaulter),
	// which is MergeReplace for most rules.
	MergeDefault MergeMode = iota
	// MergeReplace replaces the earlier payload verbatim.
	MergeReplace
	// MergeAppend keeps earlier keys and concatenates list values of keys
	// present on both sides.
	MergeAppend
)

// String returns the string representation of the merge mode.
func (m MergeMode) String() string {
	switch m {
	case MergeDefault:
		return "default"
	case MergeReplace:
		return "replace"
	case MergeAppend:
		return "append"
	default:
		return "unknown"
	}
}

// ParseMergeMode converts a configuration value to a MergeMode.
// The empty string is MergeDefault.
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return MergeDefault, nil
	case "replace":
		return MergeReplace, nil
	case "append":
		return MergeAppend, nil
	default:
		return MergeDefault, fmt.Errorf("invalid merge mode %q: must be replace or append", s)
	}
}

// RuleEntry is one rule declaration inside a layer.
type RuleEntry struct {
	// ID is the namespaced rule identifier, e.g. "@typescript-eslint/no-explicit-any".
	ID string
	// Severity is the activation level the entry sets.
	Severity Severity
	// Options is the payload; nil for severity-only entries.
	Options Options
	// Merge selects how Options combine with earlier layers.
	Merge MergeMode
}

// HasOptions reports whether the entry carries a payload.
func (e RuleEntry) HasOptions() bool {
	return e.Options != nil
}

// Clone returns a copy of the entry with its payload deep-copied.
func (e RuleEntry) Clone() RuleEntry {
	e.Options = e.Options.Clone()
	return e
}

// QualifiedID joins a rule set namespace and a rule name into a RuleId.
// Rules of the core namespace ("") keep their bare name.
//
// Example:
//
//	ruleset.QualifiedID("@typescript-eslint", "no-explicit-any") // "@typescript-eslint/no-explicit-any"
//	ruleset.QualifiedID("", "prefer-arrow-callback")            // "prefer-arrow-callback"
func QualifiedID(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

// SplitID splits a RuleId into its namespace and rule name.
// The rule name is everything after the last "/", so scoped namespaces such
// as "@scope/plugin" survive intact.
func SplitID(id string) (namespace, name string) {
	idx := strings.LastIndex(id, "/")
	if idx < 0 {
		return "", id
	}
	return id[:idx], id[idx+1:]
}

// PresetName returns the registry name of a preset shipped by a rule set.
// Presets of the core namespace keep their bare name; plugin presets use the
// "plugin:<namespace>/<name>" form.
func PresetName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return "plugin:" + namespace + "/" + name
}
