package config

import (
	"github.com/jokarl/lintstack/ruleset"
)

// Merge folds an incoming entry into the rule state resolved so far.
// existing is nil when no earlier layer declared the rule.
//
// An entry without options changes only the severity and keeps the earlier
// payload. An entry with options replaces the earlier payload verbatim,
// unless it is marked ruleset.MergeAppend: then keys from both payloads are
// kept and list values of keys present on both sides are concatenated.
//
// Merge never modifies existing or incoming. Options of the result may be
// shared with its inputs and must be treated as read-only.
//
// Example:
//
//	base := &config.ResolvedRule{Severity: ruleset.WARN, Options: ruleset.Options{"a": 1}}
//	config.Merge(base, ruleset.RuleEntry{ID: "r", Severity: ruleset.ERROR})
//	// {Severity: ERROR, Options: {"a": 1}}
func Merge(existing *ResolvedRule, incoming ruleset.RuleEntry) ResolvedRule {
	out := ResolvedRule{Severity: incoming.Severity}

	switch {
	case !incoming.HasOptions():
		if existing != nil {
			out.Options = existing.Options
		}
	case incoming.Merge == ruleset.MergeAppend && existing != nil && existing.Options != nil:
		out.Options = appendOptions(existing.Options, incoming.Options)
	default:
		out.Options = incoming.Options
	}
	return out
}

// appendOptions combines two payloads into a new map. Keys only present on
// one side are kept; list values present on both sides are concatenated;
// any other value from next wins.
func appendOptions(prev, next ruleset.Options) ruleset.Options {
	out := make(ruleset.Options, len(prev)+len(next))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range next {
		if pv, ok := prev[k]; ok {
			if combined, ok := concatLists(pv, v); ok {
				out[k] = combined
				continue
			}
		}
		out[k] = v
	}
	return out
}

func concatLists(a, b any) ([]any, bool) {
	la, ok := asList(a)
	if !ok {
		return nil, false
	}
	lb, ok := asList(b)
	if !ok {
		return nil, false
	}
	out := make([]any, 0, len(la)+len(lb))
	out = append(out, la...)
	return append(out, lb...), true
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
