// Package config turns layered rule declarations into per-file effective
// rule tables.
//
// A Stack is built once from an Input and a Registry:
//
//	expanded presets -> plugin defaults -> explicit rules -> overrides
//
// Resolving a path walks the stack in that order and folds the entries of
// every layer whose selector matches the path. Later layers win for the same
// rule. The Stack is read-only after Build and may be resolved from many
// goroutines at once.
//
// Example:
//
//	reg, err := config.NewRegistry([]ruleset.RuleSet{core, tsPlugin})
//	if err != nil {
//	    return err
//	}
//	stack, err := config.Build(reg, config.Input{
//	    Extends: []string{"plugin:@typescript-eslint/recommended"},
//	    Rules: []ruleset.RuleEntry{
//	        {ID: "@typescript-eslint/no-explicit-any", Severity: ruleset.WARN},
//	    },
//	}, config.BuildOpts{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	cfg := stack.Resolve("src/app.ts")
package config

import (
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jokarl/lintstack/glob"
	"github.com/jokarl/lintstack/ruleset"
)

// Selector decides whether a layer applies to a file.
type Selector struct {
	// Files holds pattern groups. A path must match at least one pattern of
	// every group. No groups means every path.
	Files [][]string
	// Ignores excludes paths matching any of its patterns.
	Ignores []string
	// Languages restricts the layer to targets of the listed languages.
	Languages []string
}

// Clone returns a deep copy of the selector.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	out := &Selector{
		Ignores:   append([]string(nil), s.Ignores...),
		Languages: append([]string(nil), s.Languages...),
	}
	for _, group := range s.Files {
		out.Files = append(out.Files, append([]string(nil), group...))
	}
	return out
}

// Layer is an ordered list of rule entries with an optional selector.
// A nil Selector makes the layer unconditional.
type Layer struct {
	Name     string
	Selector *Selector
	Entries  []ruleset.RuleEntry
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := Layer{
		Name:     l.Name,
		Selector: l.Selector.Clone(),
	}
	if l.Entries != nil {
		out.Entries = make([]ruleset.RuleEntry, len(l.Entries))
		for i, e := range l.Entries {
			out.Entries[i] = e.Clone()
		}
	}
	return out
}

// Preset is a named bundle of layers referenced through extends.
type Preset struct {
	Name    string
	Extends []string
	Layers  []Layer
}

// compiledSelector is a Selector with its patterns parsed.
type compiledSelector struct {
	files     []*glob.List
	ignores   []*glob.Pattern
	languages map[string]bool
}

func compileSelector(sel *Selector, layer string) (*compiledSelector, error) {
	if sel == nil {
		return nil, nil
	}

	var errs *multierror.Error
	compilePattern := func(raw string) *glob.Pattern {
		p, err := glob.Compile(raw)
		if err != nil {
			errs = multierror.Append(errs, &MalformedSelectorError{Pattern: raw, Layer: layer, Err: err})
			return nil
		}
		return p
	}

	c := &compiledSelector{}
	for _, group := range sel.Files {
		var patterns []*glob.Pattern
		for _, raw := range group {
			if p := compilePattern(raw); p != nil {
				patterns = append(patterns, p)
			}
		}
		c.files = append(c.files, glob.NewList(patterns...))
	}
	for _, raw := range sel.Ignores {
		if p := compilePattern(raw); p != nil {
			c.ignores = append(c.ignores, p)
		}
	}
	if len(sel.Languages) > 0 {
		c.languages = make(map[string]bool, len(sel.Languages))
		for _, lang := range sel.Languages {
			c.languages[strings.ToLower(lang)] = true
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return c, nil
}

// match reports whether the selector applies to a normalized path.
// A nil selector applies everywhere.
func (c *compiledSelector) match(name, language string) bool {
	if c == nil {
		return true
	}
	if c.languages != nil && !c.languages[strings.ToLower(language)] {
		return false
	}
	for _, group := range c.files {
		if !group.Match(name) {
			return false
		}
	}
	for _, p := range c.ignores {
		if p.Match(name) {
			return false
		}
	}
	return true
}

// languageByExt maps file extensions to the language tags used by
// Selector.Languages.
var languageByExt = map[string]string{
	".ts":   "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".tsx":  "typescriptreact",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascriptreact",
	".json": "json",
	".css":  "css",
	".md":   "markdown",
}

// LanguageOf guesses the language tag of a path from its extension.
// It returns "" for unknown extensions.
func LanguageOf(name string) string {
	return languageByExt[strings.ToLower(path.Ext(name))]
}
