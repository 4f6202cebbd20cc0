// Package plugin provides gRPC-based plugin communication for lintstack.
//
// This file converts rule sets to and from the structpb.Struct snapshot
// exchanged over the wire.

package plugin

import (
	"fmt"
	"math"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jokarl/lintstack/ruleset"
)

// =============================================================================
// RuleSet Snapshot
// =============================================================================

// Snapshot returns a static copy of a rule set: its rules become
// ruleset.RuleDef values and its presets are deep-copied. The snapshot is
// what the host keeps once the plugin process is gone.
func Snapshot(rs ruleset.RuleSet) (*ruleset.BuiltinRuleSet, error) {
	s, err := toStruct(rs)
	if err != nil {
		return nil, err
	}
	return fromStruct(s)
}

// toStruct converts a rule set to its wire form.
func toStruct(rs ruleset.RuleSet) (*structpb.Struct, error) {
	if rs == nil {
		return nil, fmt.Errorf("nil rule set")
	}

	rules := make([]any, 0, len(rs.RuleNames()))
	for _, name := range rs.RuleNames() {
		rule := rs.GetRule(name)
		if rule == nil {
			continue
		}
		rules = append(rules, ruleToMap(rule))
	}

	presets := make([]any, 0, len(rs.Presets()))
	for _, def := range rs.Presets() {
		presets = append(presets, presetToMap(def))
	}

	return structpb.NewStruct(map[string]any{
		"name":       rs.RuleSetName(),
		"version":    rs.RuleSetVersion(),
		"constraint": rs.VersionConstraint(),
		"rules":      rules,
		"presets":    presets,
	})
}

// fromStruct converts the wire form back to a rule set.
func fromStruct(s *structpb.Struct) (*ruleset.BuiltinRuleSet, error) {
	if s == nil {
		return nil, fmt.Errorf("empty rule set description")
	}
	m := s.AsMap()

	rs := &ruleset.BuiltinRuleSet{
		Name:       stringField(m, "name"),
		Version:    stringField(m, "version"),
		Constraint: stringField(m, "constraint"),
	}
	for i, item := range listField(m, "rules") {
		rule, err := ruleFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	for i, item := range listField(m, "presets") {
		def, err := presetFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("presets[%d]: %w", i, err)
		}
		rs.PresetDefs = append(rs.PresetDefs, def)
	}
	return rs, nil
}

// =============================================================================
// Rule Conversion
// =============================================================================

func ruleToMap(rule ruleset.Rule) map[string]any {
	m := map[string]any{
		"name":     rule.Name(),
		"enabled":  rule.Enabled(),
		"severity": rule.Severity().String(),
		"link":     rule.Link(),
	}
	if d, ok := rule.(ruleset.MergeDefaulter); ok {
		m["merge"] = d.DefaultMerge().String()
	}
	if def, ok := rule.(*ruleset.RuleDef); ok && len(def.Schema) > 0 {
		schema := make(map[string]any, len(def.Schema))
		for key, tag := range def.Schema {
			schema[key] = tag
		}
		m["schema"] = schema
	}
	return m
}

func ruleFromMap(v any) (*ruleset.RuleDef, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("must be an object, got %T", v)
	}

	def := &ruleset.RuleDef{
		RuleName: stringField(m, "name"),
		DocURL:   stringField(m, "link"),
	}
	if def.RuleName == "" {
		return nil, fmt.Errorf("rule name is empty")
	}
	def.DefaultEnabled, _ = m["enabled"].(bool)

	var err error
	if def.DefaultSeverity, err = ruleset.ParseSeverity(stringField(m, "severity")); err != nil {
		return nil, fmt.Errorf("%s: %w", def.RuleName, err)
	}
	if def.MergeMode, err = ruleset.ParseMergeMode(stringField(m, "merge")); err != nil {
		return nil, fmt.Errorf("%s: %w", def.RuleName, err)
	}
	if schema, ok := m["schema"].(map[string]any); ok {
		def.Schema = make(map[string]string, len(schema))
		for key, tag := range schema {
			s, ok := tag.(string)
			if !ok {
				return nil, fmt.Errorf("%s: schema %q must be a string", def.RuleName, key)
			}
			def.Schema[key] = s
		}
	}
	return def, nil
}

// =============================================================================
// Preset Conversion
// =============================================================================

func presetToMap(def ruleset.PresetDef) map[string]any {
	entries := make([]any, len(def.Entries))
	for i, e := range def.Entries {
		entry := map[string]any{
			"id":       e.ID,
			"severity": e.Severity.String(),
			"merge":    e.Merge.String(),
		}
		if e.Options != nil {
			entry["options"] = plain(map[string]any(e.Options))
		}
		entries[i] = entry
	}
	return map[string]any{
		"name":    def.Name,
		"extends": stringsToList(def.Extends),
		"files":   stringsToList(def.Files),
		"entries": entries,
	}
}

func presetFromMap(v any) (ruleset.PresetDef, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return ruleset.PresetDef{}, fmt.Errorf("must be an object, got %T", v)
	}

	def := ruleset.PresetDef{
		Name:    stringField(m, "name"),
		Extends: ruleset.ToStringSlice(m["extends"]),
		Files:   ruleset.ToStringSlice(m["files"]),
	}
	for i, item := range listField(m, "entries") {
		em, ok := item.(map[string]any)
		if !ok {
			return def, fmt.Errorf("entries[%d]: must be an object, got %T", i, item)
		}
		entry := ruleset.RuleEntry{ID: stringField(em, "id")}
		var err error
		if entry.Severity, err = ruleset.ParseSeverity(stringField(em, "severity")); err != nil {
			return def, fmt.Errorf("entries[%d]: %w", i, err)
		}
		if entry.Merge, err = ruleset.ParseMergeMode(stringField(em, "merge")); err != nil {
			return def, fmt.Errorf("entries[%d]: %w", i, err)
		}
		if opts, ok := em["options"].(map[string]any); ok {
			entry.Options = ruleset.Options(wholeNumbers(opts).(map[string]any))
		}
		def.Entries = append(def.Entries, entry)
	}
	return def, nil
}

// =============================================================================
// Value Helpers
// =============================================================================

// plain rewrites typed slices and maps into the []any and map[string]any
// shapes structpb accepts.
func plain(v any) any {
	switch t := v.(type) {
	case ruleset.Options:
		return plain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	case []string:
		return stringsToList(t)
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// wholeNumbers turns integral float64 values, which is how structpb
// returns every number, back into int.
func wholeNumbers(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int(t)
		}
		return t
	case map[string]any:
		for k, item := range t {
			t[k] = wholeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = wholeNumbers(item)
		}
		return t
	default:
		return v
	}
}

func stringsToList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func listField(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

// sortedRuleNames returns the rule names of a snapshot in order, for
// printing.
func sortedRuleNames(rs ruleset.RuleSet) []string {
	names := append([]string(nil), rs.RuleNames()...)
	sort.Strings(names)
	return names
}
