package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/jokarl/lintstack/glob"
	"github.com/jokarl/lintstack/ruleset"
)

// Input is the declarative content of one configuration document.
type Input struct {
	// Extends lists preset names, expanded in order.
	Extends []string
	// Plugins lists rule set namespaces whose enabled rules contribute
	// their default severities.
	Plugins []string
	// Rules are unconditional entries applied after presets and plugin
	// defaults.
	Rules []ruleset.RuleEntry
	// Overrides are applied last, in order.
	Overrides []Layer
	// Ignores is the global ignore list.
	Ignores []string
	// Settings is passed through unexamined.
	Settings map[string]any
}

// BuildOpts configures Build.
type BuildOpts struct {
	// Logger receives build diagnostics. Defaults to a null logger.
	Logger hclog.Logger
	// Root is the directory patterns are relative to. Paths given to
	// Resolve are made relative to it.
	Root string
}

// WarningKind classifies a non-fatal build problem.
type WarningKind int

const (
	// WarnUnknownRule is an entry whose rule set is registered but does
	// not know the rule.
	WarnUnknownRule WarningKind = iota
	// WarnUnknownPlugin is an entry or plugins item naming a rule set
	// that is not registered.
	WarnUnknownPlugin
)

// String returns the string representation of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnUnknownRule:
		return "unknown-rule"
	case WarnUnknownPlugin:
		return "unknown-plugin"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal build problem. The entry it refers to is dropped.
type Warning struct {
	Kind    WarningKind
	RuleID  string
	Layer   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", layerLabel(w.Layer), w.Message)
}

// Stack is the ordered, compiled list of layers a build produced.
type Stack struct {
	layers   []compiledLayer
	ignores  *glob.IgnoreList
	settings map[string]any
	warnings []Warning
	root     string
}

type compiledLayer struct {
	Layer
	sel *compiledSelector
}

// Build expands presets, collects plugin defaults and compiles every layer
// into a Stack.
//
// Precedence, lowest first: expanded presets in Extends order, the default
// entries of each plugin in Plugins order, Rules, then Overrides in order.
//
// Unknown presets, preset cycles, malformed patterns and options rejected
// by a rule's validator are fatal; all of them are collected and returned
// together. Entries referring to unregistered rules are dropped and
// reported through Stack.Warnings.
func Build(reg *Registry, in Input, opts BuildOpts) (*Stack, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var errs *multierror.Error
	var raw []Layer

	for _, name := range in.Extends {
		layers, err := expandFrom(name, "extends", reg)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		raw = append(raw, layers...)
	}

	s := &Stack{root: opts.Root}

	for _, ns := range in.Plugins {
		rs, ok := reg.RuleSet(ns)
		if !ok {
			s.warn(logger, Warning{
				Kind:    WarnUnknownPlugin,
				Layer:   "plugins",
				Message: fmt.Sprintf("plugin %q is not registered", ns),
			})
			continue
		}
		if entries := defaultEntries(rs); len(entries) > 0 {
			raw = append(raw, Layer{Name: "plugin " + ns + " defaults", Entries: entries})
		}
	}

	if len(in.Rules) > 0 {
		raw = append(raw, Layer{Name: "rules", Entries: in.Rules})
	}

	for i, o := range in.Overrides {
		if o.Name == "" {
			o.Name = fmt.Sprintf("overrides[%d]", i)
		}
		raw = append(raw, o)
	}

	for _, l := range raw {
		cl, err := s.compileLayer(reg, l, logger)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		s.layers = append(s.layers, cl)
		logger.Trace("layer compiled", "index", len(s.layers)-1, "name", cl.Name,
			"entries", len(cl.Entries), "conditional", cl.sel != nil)
	}

	ignores, err := glob.CompileIgnores(in.Ignores)
	if err != nil {
		errs = multierror.Append(errs, ignoreErrors(err)...)
	}
	s.ignores = ignores
	s.settings = ruleset.Options(in.Settings).Clone()

	if err := errs.ErrorOrNil(); err != nil {
		logger.Error("configuration build failed", "errors", len(errs.Errors))
		return nil, err
	}
	logger.Debug("configuration built", "layers", len(s.layers), "warnings", len(s.warnings))
	return s, nil
}

func (s *Stack) compileLayer(reg *Registry, l Layer, logger hclog.Logger) (compiledLayer, error) {
	var errs *multierror.Error

	sel, err := compileSelector(l.Selector, l.Name)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	out := compiledLayer{Layer: Layer{Name: l.Name, Selector: l.Selector.Clone()}, sel: sel}
	for _, e := range l.Entries {
		rule, ok := reg.Rule(e.ID)
		if !ok {
			s.warn(logger, unknownRuleWarning(reg, e.ID, l.Name))
			continue
		}

		entry := e.Clone()
		if entry.Merge == ruleset.MergeDefault {
			entry.Merge = ruleset.MergeReplace
			if d, ok := rule.(ruleset.MergeDefaulter); ok && d.DefaultMerge() != ruleset.MergeDefault {
				entry.Merge = d.DefaultMerge()
			}
		}
		if v, ok := rule.(ruleset.OptionsValidator); ok && entry.HasOptions() {
			if err := v.ValidateOptions(entry.Options); err != nil {
				errs = multierror.Append(errs, &InvalidOptionsError{RuleID: e.ID, Layer: l.Name, Err: err})
				continue
			}
		}
		out.Entries = append(out.Entries, entry)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return compiledLayer{}, err
	}
	return out, nil
}

func (s *Stack) warn(logger hclog.Logger, w Warning) {
	logger.Warn(w.Message, "kind", w.Kind.String(), "rule", w.RuleID, "layer", w.Layer)
	s.warnings = append(s.warnings, w)
}

func unknownRuleWarning(reg *Registry, id, layer string) Warning {
	ns, _ := ruleset.SplitID(id)
	if _, ok := reg.RuleSet(ns); !ok {
		msg := fmt.Sprintf("rule %q belongs to unregistered plugin %q", id, ns)
		if ns == "" {
			msg = fmt.Sprintf("core rule %q is not registered", id)
		}
		return Warning{Kind: WarnUnknownPlugin, RuleID: id, Layer: layer, Message: msg}
	}
	return Warning{
		Kind:    WarnUnknownRule,
		RuleID:  id,
		Layer:   layer,
		Message: fmt.Sprintf("rule %q is not defined by plugin %q", id, ns),
	}
}

// defaultEntries returns severity-only entries for the enabled rules of a
// rule set, in rule order.
func defaultEntries(rs ruleset.RuleSet) []ruleset.RuleEntry {
	if b := rs.BuiltinImpl(); b != nil {
		return b.DefaultEntries()
	}
	var entries []ruleset.RuleEntry
	for _, name := range rs.RuleNames() {
		rule := rs.GetRule(name)
		if rule == nil || !rule.Enabled() {
			continue
		}
		entries = append(entries, ruleset.RuleEntry{
			ID:       ruleset.QualifiedID(rs.RuleSetName(), name),
			Severity: rule.Severity(),
		})
	}
	return entries
}

// ignoreErrors converts glob errors from the global ignore list into
// MalformedSelectorErrors.
func ignoreErrors(err error) []error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		merr = &multierror.Error{Errors: []error{err}}
	}
	out := make([]error, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		var pe *glob.PatternError
		if errors.As(e, &pe) {
			out = append(out, &MalformedSelectorError{Pattern: pe.Pattern, Layer: "ignores", Err: e})
			continue
		}
		out = append(out, e)
	}
	return out
}
