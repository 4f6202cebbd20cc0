package ruleset

// PresetDef is a named preset shipped by a rule set.
// It is registered under PresetName(namespace, Name).
type PresetDef struct {
	// Name is the preset name inside the rule set (e.g., "recommended").
	Name string
	// Extends lists fully-qualified preset names expanded before Entries.
	Extends []string
	// Files optionally scopes Entries to matching files.
	Files []string
	// Entries are the rule declarations of the preset.
	Entries []RuleEntry
}

// RuleSet is implemented by plugins to provide a collection of rules and presets.
// Plugins typically embed BuiltinRuleSet and override methods as needed.
//
// Example:
//
//	rs := &ruleset.BuiltinRuleSet{
//	    Name:    "@typescript-eslint",
//	    Version: "8.0.0",
//	    Rules:   []ruleset.Rule{&NoExplicitAny{}},
//	    PresetDefs: []ruleset.PresetDef{{
//	        Name:    "recommended",
//	        Entries: []ruleset.RuleEntry{{ID: "@typescript-eslint/no-explicit-any", Severity: ruleset.ERROR}},
//	    }},
//	}
type RuleSet interface {
	// RuleSetName returns the namespace of the rule set (e.g., "@typescript-eslint").
	// The empty namespace holds core rules with bare RuleIds.
	RuleSetName() string

	// RuleSetVersion returns the version of the rule set (e.g., "8.0.0").
	RuleSetVersion() string

	// VersionConstraint returns the lintstack version constraint (e.g., ">= 0.1.0").
	VersionConstraint() string

	// RuleNames returns the names of all rules in this rule set.
	RuleNames() []string

	// GetRule returns a rule by name, or nil if not found.
	GetRule(name string) Rule

	// Presets returns the presets shipped by this rule set.
	Presets() []PresetDef

	// BuiltinImpl returns the embedded BuiltinRuleSet.
	// Used internally for rule iteration.
	BuiltinImpl() *BuiltinRuleSet
}

// BuiltinRuleSet provides default implementations for the RuleSet interface.
type BuiltinRuleSet struct {
	// Name is the rule set namespace.
	Name string
	// Version is the rule set version.
	Version string
	// Constraint is the lintstack version constraint.
	Constraint string
	// Rules is the list of rules in this rule set.
	Rules []Rule
	// PresetDefs is the list of presets shipped by this rule set.
	PresetDefs []PresetDef
}

var _ RuleSet = (*BuiltinRuleSet)(nil)

// RuleSetName returns the namespace of the rule set.
func (rs *BuiltinRuleSet) RuleSetName() string {
	return rs.Name
}

// RuleSetVersion returns the version of the rule set.
func (rs *BuiltinRuleSet) RuleSetVersion() string {
	return rs.Version
}

// VersionConstraint returns the lintstack version constraint.
func (rs *BuiltinRuleSet) VersionConstraint() string {
	if rs.Constraint == "" {
		return ">= 0.1.0"
	}
	return rs.Constraint
}

// RuleNames returns the names of all rules in this rule set.
func (rs *BuiltinRuleSet) RuleNames() []string {
	names := make([]string, len(rs.Rules))
	for i, rule := range rs.Rules {
		names[i] = rule.Name()
	}
	return names
}

// GetRule returns a rule by name, or nil if not found.
func (rs *BuiltinRuleSet) GetRule(name string) Rule {
	for _, rule := range rs.Rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// Presets returns the presets shipped by this rule set.
func (rs *BuiltinRuleSet) Presets() []PresetDef {
	return rs.PresetDefs
}

// BuiltinImpl returns the BuiltinRuleSet itself.
func (rs *BuiltinRuleSet) BuiltinImpl() *BuiltinRuleSet {
	return rs
}

// EnabledRules returns all rules that contribute a default severity.
func (rs *BuiltinRuleSet) EnabledRules() []Rule {
	var enabled []Rule
	for _, rule := range rs.Rules {
		if rule.Enabled() {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// DefaultEntries returns the severity-only entries this rule set contributes
// when it is listed in a configuration's plugins, in declaration order.
func (rs *BuiltinRuleSet) DefaultEntries() []RuleEntry {
	enabled := rs.EnabledRules()
	entries := make([]RuleEntry, 0, len(enabled))
	for _, rule := range enabled {
		entries = append(entries, RuleEntry{
			ID:       QualifiedID(rs.Name, rule.Name()),
			Severity: rule.Severity(),
		})
	}
	return entries
}
