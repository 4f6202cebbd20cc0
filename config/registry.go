package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/jokarl/lintstack/ruleset"
)

// Registry indexes the rule sets and presets known to a build.
//
// A Registry is constructed once by NewRegistry and never modified; it is
// passed explicitly to Expand and Build instead of living in package state.
type Registry struct {
	rulesets map[string]ruleset.RuleSet
	rules    map[string]ruleset.Rule
	presets  map[string]Preset
}

// NewRegistry builds a registry from rule sets and standalone presets.
//
// Every rule of a rule set is indexed under its qualified id; presets
// shipped by a rule set are registered under ruleset.PresetName. Duplicate
// namespaces or preset names are errors.
func NewRegistry(rulesets []ruleset.RuleSet, presets ...Preset) (*Registry, error) {
	r := &Registry{
		rulesets: make(map[string]ruleset.RuleSet, len(rulesets)),
		rules:    make(map[string]ruleset.Rule),
		presets:  make(map[string]Preset),
	}

	var errs *multierror.Error
	addPreset := func(p Preset) {
		if _, exists := r.presets[p.Name]; exists {
			errs = multierror.Append(errs, fmt.Errorf("preset %q registered twice", p.Name))
			return
		}
		r.presets[p.Name] = p
	}

	for _, rs := range rulesets {
		ns := rs.RuleSetName()
		if _, exists := r.rulesets[ns]; exists {
			errs = multierror.Append(errs, fmt.Errorf("rule set %q registered twice", ns))
			continue
		}
		r.rulesets[ns] = rs

		for _, name := range rs.RuleNames() {
			rule := rs.GetRule(name)
			if rule == nil {
				continue
			}
			r.rules[ruleset.QualifiedID(ns, name)] = rule
		}
		for _, def := range rs.Presets() {
			addPreset(presetFromDef(ns, def))
		}
	}
	for _, p := range presets {
		addPreset(p.clone())
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

func presetFromDef(ns string, def ruleset.PresetDef) Preset {
	name := ruleset.PresetName(ns, def.Name)
	layer := Layer{Name: name, Entries: def.Entries}
	if len(def.Files) > 0 {
		layer.Selector = &Selector{Files: [][]string{def.Files}}
	}
	p := Preset{
		Name:    name,
		Extends: def.Extends,
		Layers:  []Layer{layer},
	}
	return p.clone()
}

func (p Preset) clone() Preset {
	out := Preset{
		Name:    p.Name,
		Extends: append([]string(nil), p.Extends...),
	}
	for _, l := range p.Layers {
		out.Layers = append(out.Layers, l.Clone())
	}
	return out
}

// RuleSet returns the rule set registered under a namespace.
func (r *Registry) RuleSet(namespace string) (ruleset.RuleSet, bool) {
	if r == nil {
		return nil, false
	}
	rs, ok := r.rulesets[namespace]
	return rs, ok
}

// Rule returns the rule registered under a qualified id.
func (r *Registry) Rule(id string) (ruleset.Rule, bool) {
	if r == nil {
		return nil, false
	}
	rule, ok := r.rules[id]
	return rule, ok
}

// Preset returns the preset registered under name.
func (r *Registry) Preset(name string) (Preset, bool) {
	if r == nil {
		return Preset{}, false
	}
	p, ok := r.presets[name]
	return p, ok
}

// PresetNames returns the registered preset names in sorted order.
func (r *Registry) PresetNames() []string {
	if r == nil {
		return nil
	}
	return sortedKeys(r.presets)
}

// RuleIDs returns every registered rule id in sorted order.
func (r *Registry) RuleIDs() []string {
	if r == nil {
		return nil
	}
	return sortedKeys(r.rules)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
