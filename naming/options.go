package naming

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/ruleset"
)

// ConventionsKey is the option key holding the convention list in the
// payload of a naming-convention rule.
const ConventionsKey = "conventions"

var validate = validator.New()

// convention is the decoded form of one table entry, before format and
// marker names are parsed.
type convention struct {
	Selector          []string `validate:"required,min=1,dive,required"`
	Modifiers         []string `validate:"dive,required"`
	Types             []string `validate:"dive,required"`
	Format            []string `validate:"omitempty,dive,required"`
	Prefix            []string `validate:"dive,required"`
	Suffix            []string `validate:"dive,required"`
	LeadingUnderscore string   `validate:"omitempty,oneof=forbid allow require requireDouble allowDouble allowSingleOrDouble"`
	anyFormat         bool
}

// FromOptions decodes the convention table of a naming-convention rule
// payload. Each item of the "conventions" list is an object with the keys
// selector, modifiers, types, format, prefix, suffix and leadingUnderscore.
// A format of null, or no format key, accepts any format.
//
// Example payload:
//
//	{"conventions": [
//	    {"selector": "interface", "format": ["PascalCase"], "prefix": ["I"]},
//	    {"selector": "memberLike", "modifiers": ["private"], "format": ["camelCase"], "leadingUnderscore": "require"}
//	]}
func FromOptions(opts ruleset.Options) (Table, error) {
	items := opts.MapSlice(ConventionsKey)
	table := make(Table, 0, len(items))
	for i, item := range items {
		rule, err := decodeRule(item)
		if err != nil {
			return nil, fmt.Errorf("conventions[%d]: %w", i, err)
		}
		table = append(table, rule)
	}
	return table, nil
}

func decodeRule(item map[string]any) (Rule, error) {
	c := convention{
		Selector:          ruleset.ToStringSlice(item["selector"]),
		Modifiers:         ruleset.ToStringSlice(item["modifiers"]),
		Types:             ruleset.ToStringSlice(item["types"]),
		Prefix:            ruleset.ToStringSlice(item["prefix"]),
		Suffix:            ruleset.ToStringSlice(item["suffix"]),
		LeadingUnderscore: stringValue(item, "leadingUnderscore", "leading_underscore"),
	}
	if f, ok := item["format"]; !ok || f == nil {
		c.anyFormat = true
	} else {
		c.Format = ruleset.ToStringSlice(f)
	}

	if err := validate.Struct(c); err != nil {
		return Rule{}, err
	}

	rule := Rule{
		Selector: Selector{Kinds: c.Selector, Modifiers: c.Modifiers, Types: c.Types},
		Prefixes: c.Prefix,
		Suffixes: c.Suffix,
	}
	if !c.anyFormat {
		rule.Formats = make([]Format, 0, len(c.Format))
		for _, name := range c.Format {
			f, err := ParseFormat(name)
			if err != nil {
				return Rule{}, err
			}
			rule.Formats = append(rule.Formats, f)
		}
	}
	u, err := ParseUnderscore(c.LeadingUnderscore)
	if err != nil {
		return Rule{}, err
	}
	rule.LeadingUnderscore = u
	return rule, nil
}

func stringValue(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok {
			return s
		}
	}
	return ""
}

// FromEffective decodes the convention table of ruleID from a resolved
// config. The boolean is false when the rule is absent or off.
func FromEffective(cfg config.EffectiveConfig, ruleID string) (Table, bool, error) {
	r, ok := cfg.Get(ruleID)
	if !ok || !r.Severity.Active() {
		return nil, false, nil
	}
	table, err := FromOptions(r.Options)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", ruleID, err)
	}
	return table, true, nil
}

// Schema returns the validator tags a naming-convention rule can use as its
// ruleset.RuleDef schema.
func Schema() map[string]string {
	return map[string]string{ConventionsKey: "required"}
}
