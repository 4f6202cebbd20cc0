package config

import (
	"sort"

	"github.com/jokarl/lintstack/glob"
	"github.com/jokarl/lintstack/ruleset"
)

// Target is a file to resolve. Language is optional; when empty it is
// derived from the file extension by LanguageOf.
type Target struct {
	Path     string
	Language string
}

// ResolvedRule is the effective state of one rule for one file.
type ResolvedRule struct {
	Severity ruleset.Severity
	// Options is nil when no applicable layer supplied a payload.
	Options ruleset.Options
	// Layer names the last layer that touched the rule.
	Layer string
}

// EffectiveConfig is the rule table resolved for one file. It is a value:
// nothing reachable through its methods aliases the Stack.
type EffectiveConfig struct {
	path  string
	rules map[string]ResolvedRule
}

// Path returns the normalized path the config was resolved for.
func (c EffectiveConfig) Path() string { return c.path }

// Get returns the resolved state of a rule. The boolean is false when no
// applicable layer declared the rule, which means the rule is inactive.
func (c EffectiveConfig) Get(id string) (ResolvedRule, bool) {
	r, ok := c.rules[id]
	if !ok {
		return ResolvedRule{}, false
	}
	r.Options = r.Options.Clone()
	return r, true
}

// Severity returns the severity of a rule, OFF when it is absent.
func (c EffectiveConfig) Severity(id string) ruleset.Severity {
	return c.rules[id].Severity
}

// Active reports whether a rule should run for the file.
func (c EffectiveConfig) Active(id string) bool {
	return c.Severity(id).Active()
}

// IDs returns every declared rule id, including rules turned off, sorted.
func (c EffectiveConfig) IDs() []string {
	return sortedKeys(c.rules)
}

// ActiveIDs returns the ids of rules with severity warn or error, sorted.
func (c EffectiveConfig) ActiveIDs() []string {
	ids := make([]string, 0, len(c.rules))
	for id, r := range c.rules {
		if r.Severity.Active() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of declared rules.
func (c EffectiveConfig) Len() int { return len(c.rules) }

// Map returns a copy of the whole table.
func (c EffectiveConfig) Map() map[string]ResolvedRule {
	out := make(map[string]ResolvedRule, len(c.rules))
	for id, r := range c.rules {
		r.Options = r.Options.Clone()
		out[id] = r
	}
	return out
}

// Resolve returns the effective config for a path. It never fails: rules
// no applicable layer declares are simply absent.
func (s *Stack) Resolve(path string) EffectiveConfig {
	return s.ResolveTarget(Target{Path: path})
}

// ResolveTarget is Resolve with an explicit language.
func (s *Stack) ResolveTarget(t Target) EffectiveConfig {
	name := glob.Normalize(s.root, t.Path)
	lang := t.Language
	if lang == "" {
		lang = LanguageOf(name)
	}

	rules := make(map[string]ResolvedRule)
	for _, l := range s.layers {
		if !l.sel.match(name, lang) {
			continue
		}
		for _, e := range l.Entries {
			var existing *ResolvedRule
			if prev, ok := rules[e.ID]; ok {
				existing = &prev
			}
			merged := Merge(existing, e)
			merged.Layer = l.Name
			rules[e.ID] = merged
		}
	}
	return EffectiveConfig{path: name, rules: rules}
}

// Ignored reports whether the global ignore list excludes a path. Ignored
// paths still resolve; linting them is the caller's decision.
func (s *Stack) Ignored(path string) bool {
	return s.ignores.Ignored(glob.Normalize(s.root, path))
}

// Warnings returns the non-fatal problems found while building.
func (s *Stack) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

// Settings returns a copy of the opaque settings.
func (s *Stack) Settings() map[string]any {
	return ruleset.Options(s.settings).Clone()
}

// Layers returns copies of the compiled layers in precedence order.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Layer.Clone()
	}
	return out
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }
