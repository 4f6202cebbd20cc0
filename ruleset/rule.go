package ruleset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is the interface describing a registered rule implementation.
// The rule's check logic lives in the external linter runtime; lintstack
// only needs the metadata that feeds configuration resolution.
//
// Plugin authors typically embed DefaultRule to get default implementations
// for Enabled() and Severity(), then implement the remaining methods.
//
// Example:
//
//	type NoExplicitAny struct {
//	    ruleset.DefaultRule
//	}
//
//	func (r *NoExplicitAny) Name() string { return "no-explicit-any" }
//	func (r *NoExplicitAny) Link() string { return "https://example.com/no-explicit-any" }
type Rule interface {
	// Name returns the rule name, unique inside its rule set.
	// Convention: lowercase kebab-case (e.g., "no-explicit-any").
	Name() string

	// Enabled returns whether the rule contributes its default severity
	// when its plugin is listed in a configuration's plugins.
	Enabled() bool

	// Severity returns the default severity contributed when Enabled.
	Severity() Severity

	// Link returns a URL to documentation about the rule.
	Link() string
}

// OptionsValidator is implemented by rules that check their option payload
// before it is stored in a layer stack.
type OptionsValidator interface {
	ValidateOptions(Options) error
}

// MergeDefaulter is implemented by rules whose list-valued options append
// across layers unless an entry asks for replacement.
type MergeDefaulter interface {
	DefaultMerge() MergeMode
}

// DefaultRule provides default implementations for optional Rule interface methods.
//
// With DefaultRule embedded, a rule automatically gets:
//   - Enabled() returning false (rules stay off until a preset or entry turns them on)
//   - Severity() returning ERROR
//
// Override these methods if your rule needs different defaults:
//
//	func (r *MyRule) Enabled() bool { return true }
//	func (r *MyRule) Severity() ruleset.Severity { return ruleset.WARN }
type DefaultRule struct{}

// Enabled returns false, so plugin rules do not activate by default.
func (r DefaultRule) Enabled() bool {
	return false
}

// Severity returns ERROR, the default severity for rules.
func (r DefaultRule) Severity() Severity {
	return ERROR
}

// RuleDef is a data-driven rule definition.
// It is what out-of-process plugins are decoded into, and a convenient way
// to declare rules without writing a type per rule.
type RuleDef struct {
	RuleName        string            // Rule name, e.g. "no-restricted-imports"
	DefaultEnabled  bool              // Contribute DefaultSeverity as a plugin default
	DefaultSeverity Severity          // Severity contributed when DefaultEnabled
	DocURL          string            // Documentation URL
	MergeMode       MergeMode         // Default merge mode for the rule's options
	Schema          map[string]string // Option key -> validator tag, e.g. "required,oneof=a b"
}

var (
	_ Rule             = (*RuleDef)(nil)
	_ OptionsValidator = (*RuleDef)(nil)
	_ MergeDefaulter   = (*RuleDef)(nil)
)

// optionValidator is shared by every RuleDef; validator.Validate caches tag
// parsing and is safe for concurrent use.
var optionValidator = validator.New()

func (d *RuleDef) Name() string            { return d.RuleName }
func (d *RuleDef) Enabled() bool           { return d.DefaultEnabled }
func (d *RuleDef) Severity() Severity      { return d.DefaultSeverity }
func (d *RuleDef) Link() string            { return d.DocURL }
func (d *RuleDef) DefaultMerge() MergeMode { return d.MergeMode }

// ValidateOptions checks the payload against Schema using validator tags.
// Keys absent from Schema are not examined.
func (d *RuleDef) ValidateOptions(opts Options) error {
	if len(d.Schema) == 0 || opts == nil {
		return nil
	}

	rules := make(map[string]interface{}, len(d.Schema))
	for key, tag := range d.Schema {
		rules[key] = tag
	}

	errs := optionValidator.ValidateMap(map[string]interface{}(opts), rules)
	if len(errs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, key := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %v", key, errs[key]))
	}
	return fmt.Errorf("invalid options for %s: %s", d.RuleName, strings.Join(msgs, "; "))
}
