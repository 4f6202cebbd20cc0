// Package naming checks declared symbol names against an ordered table of
// naming conventions.
//
// The table is evaluated top to bottom and the first convention whose
// selector matches the symbol decides; later conventions are not consulted.
// This is the opposite of configuration layers, where the last applicable
// layer wins, and both behaviors are kept as they are.
//
// Example:
//
//	table := naming.Table{
//	    {Selector: naming.Selector{Kinds: []string{"interface"}}, Formats: []naming.Format{naming.PascalCase}, Prefixes: []string{"I"}},
//	}
//	res := table.Check(naming.Symbol{Kind: "interface", Name: "IUser"})
//	res.OK() // true
package naming

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbol is a declared name as reported by a parser.
type Symbol struct {
	// Kind is an individual selector such as "variable", "function",
	// "classMethod" or "interface".
	Kind string
	// Modifiers such as "private", "exported" or "destructured".
	Modifiers []string
	// Types such as "boolean" or "function", when type information exists.
	Types []string
	Name  string
}

// selectorGroups maps group selectors to the kinds they cover.
var selectorGroups = map[string][]string{
	"variableLike": {"variable", "function", "parameter"},
	"memberLike": {
		"classProperty", "objectLiteralProperty", "typeProperty", "parameterProperty",
		"classMethod", "objectLiteralMethod", "typeMethod",
		"accessor", "classicAccessor", "autoAccessor", "enumMember",
	},
	"typeLike": {"class", "interface", "typeAlias", "enum", "typeParameter"},
	"property": {"classProperty", "objectLiteralProperty", "typeProperty"},
	"method":   {"classMethod", "objectLiteralMethod", "typeMethod"},
	"accessor": {"accessor", "classicAccessor", "autoAccessor"},
}

// Selector matches symbols by kind, modifiers and types.
type Selector struct {
	// Kinds are individual kinds or group names; "default" matches every
	// kind. An empty list also matches every kind.
	Kinds []string
	// Modifiers must all be present on the symbol.
	Modifiers []string
	// Types match when the symbol carries at least one of them.
	Types []string
}

// Match reports whether the selector applies to the symbol.
func (s Selector) Match(sym Symbol) bool {
	if len(s.Kinds) > 0 && !slices.ContainsFunc(s.Kinds, func(k string) bool { return kindMatches(k, sym.Kind) }) {
		return false
	}
	for _, m := range s.Modifiers {
		if !slices.Contains(sym.Modifiers, m) {
			return false
		}
	}
	if len(s.Types) > 0 && !slices.ContainsFunc(s.Types, func(t string) bool { return slices.Contains(sym.Types, t) }) {
		return false
	}
	return true
}

func kindMatches(selector, kind string) bool {
	if selector == "default" || selector == kind {
		return true
	}
	return slices.Contains(selectorGroups[selector], kind)
}

// Rule is one naming convention.
type Rule struct {
	Selector Selector
	// Formats lists the accepted formats; nil accepts any format.
	Formats []Format
	// Prefixes, when set, requires the name to start with one of them
	// followed by an uppercase letter.
	Prefixes []string
	// Suffixes, when set, requires the name to end with one of them.
	Suffixes          []string
	LeadingUnderscore Underscore
}

// Table is an ordered list of conventions. The first match wins.
type Table []Rule

// Reason classifies a naming violation.
type Reason int

const (
	ReasonNone Reason = iota
	FormatMismatch
	PrefixMissing
	SuffixMissing
	MarkerMissing
	MarkerForbidden
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case FormatMismatch:
		return "format-mismatch"
	case PrefixMissing:
		return "prefix-missing"
	case SuffixMissing:
		return "suffix-missing"
	case MarkerMissing:
		return "marker-missing"
	case MarkerForbidden:
		return "marker-forbidden"
	default:
		return "unknown"
	}
}

// Result is the outcome of checking one symbol.
type Result struct {
	Reason Reason
	// Index is the position of the deciding rule in the table, -1 when no
	// rule matched.
	Index int
	// Rule is the deciding rule, nil when no rule matched.
	Rule    *Rule
	Message string
}

// OK reports whether the name passed.
func (r Result) OK() bool { return r.Reason == ReasonNone }

// Matched reports whether a rule of the table applied to the symbol.
func (r Result) Matched() bool { return r.Rule != nil }

// Check applies the first matching rule of the table to the symbol.
// A symbol no rule matches is unconstrained and passes.
func Check(sym Symbol, table Table) Result {
	for i := range table {
		rule := &table[i]
		if !rule.Selector.Match(sym) {
			continue
		}
		res := rule.check(sym)
		res.Index = i
		res.Rule = rule
		return res
	}
	return Result{Index: -1}
}

// Check applies the first matching rule of the table to the symbol.
func (t Table) Check(sym Symbol) Result {
	return Check(sym, t)
}

// check runs the marker, prefix, suffix and format steps in that order on
// one symbol.
func (r *Rule) check(sym Symbol) Result {
	label := describe(sym)
	name := sym.Name

	name, reason := stripUnderscore(name, r.LeadingUnderscore)
	switch reason {
	case MarkerForbidden:
		return Result{Reason: reason, Message: fmt.Sprintf("%s must not have a leading underscore", label)}
	case MarkerMissing:
		return Result{Reason: reason, Message: fmt.Sprintf("%s must have %s leading underscore", label, underscoreArticle(r.LeadingUnderscore))}
	}

	if len(r.Prefixes) > 0 {
		rest, ok := stripPrefix(name, r.Prefixes)
		if !ok {
			return Result{
				Reason:  PrefixMissing,
				Message: fmt.Sprintf("%s must have one of the following prefixes: %s", label, strings.Join(r.Prefixes, ", ")),
			}
		}
		name = rest
	}

	if len(r.Suffixes) > 0 {
		rest, ok := stripSuffix(name, r.Suffixes)
		if !ok {
			return Result{
				Reason:  SuffixMissing,
				Message: fmt.Sprintf("%s must have one of the following suffixes: %s", label, strings.Join(r.Suffixes, ", ")),
			}
		}
		name = rest
	}

	if r.Formats != nil && !slices.ContainsFunc(r.Formats, func(f Format) bool { return f.Match(name) }) {
		return Result{
			Reason:  FormatMismatch,
			Message: fmt.Sprintf("%s must match one of the following formats: %s", label, formatList(r.Formats)),
		}
	}
	return Result{}
}

func stripUnderscore(name string, mode Underscore) (string, Reason) {
	switch mode {
	case UnderscoreForbid:
		if strings.HasPrefix(name, "_") {
			return name, MarkerForbidden
		}
	case UnderscoreRequire:
		if !strings.HasPrefix(name, "_") {
			return name, MarkerMissing
		}
		return name[1:], ReasonNone
	case UnderscoreRequireDouble:
		if !strings.HasPrefix(name, "__") {
			return name, MarkerMissing
		}
		return name[2:], ReasonNone
	case UnderscoreAllow:
		return strings.TrimPrefix(name, "_"), ReasonNone
	case UnderscoreAllowDouble:
		return strings.TrimPrefix(name, "__"), ReasonNone
	case UnderscoreAllowSingleOrDouble:
		if strings.HasPrefix(name, "__") {
			return name[2:], ReasonNone
		}
		return strings.TrimPrefix(name, "_"), ReasonNone
	}
	return name, ReasonNone
}

// stripPrefix removes the first listed prefix that is followed by an
// uppercase letter.
func stripPrefix(name string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if !strings.HasPrefix(name, p) || len(name) == len(p) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(name[len(p):])
		if unicode.IsUpper(next) {
			return name[len(p):], true
		}
	}
	return name, false
}

func stripSuffix(name string, suffixes []string) (string, bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) && len(name) > len(s) {
			return strings.TrimSuffix(name, s), true
		}
	}
	return name, false
}

func underscoreArticle(mode Underscore) string {
	if mode == UnderscoreRequireDouble {
		return "a double"
	}
	return "a"
}

func describe(sym Symbol) string {
	kind := sym.Kind
	if kind == "" {
		kind = "symbol"
	}
	return fmt.Sprintf("%s name %q", kind, sym.Name)
}

func formatList(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
