package glob

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

// List is an OR list of patterns with "!" exclusions.
//
// Evaluation: exclusions are checked first and any match rejects the path.
// Then inclusions are checked and any match accepts it. A list holding only
// exclusions accepts every path it does not exclude, and the empty list
// accepts everything.
type List struct {
	include []*Pattern
	exclude []*Pattern
}

// NewList groups already compiled patterns into a List.
func NewList(patterns ...*Pattern) *List {
	l := &List{}
	for _, p := range patterns {
		if p.negated {
			l.exclude = append(l.exclude, p)
		} else {
			l.include = append(l.include, p)
		}
	}
	return l
}

// CompileList compiles every pattern. All malformed patterns are reported
// together.
func CompileList(patterns []string) (*List, error) {
	var result *multierror.Error
	compiled := make([]*Pattern, 0, len(patterns))
	for _, raw := range patterns {
		p, err := Compile(raw)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		compiled = append(compiled, p)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return NewList(compiled...), nil
}

// Match reports whether path is accepted by the list.
func (l *List) Match(name string) bool {
	if l == nil || l.Len() == 0 {
		return true
	}
	name = clean(name)

	for _, p := range l.exclude {
		if p.matchBody(name) {
			return false
		}
	}
	if len(l.include) == 0 {
		return true
	}
	for _, p := range l.include {
		if p.matchBody(name) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.include) + len(l.exclude)
}

// Patterns returns the patterns as written, inclusions first.
func (l *List) Patterns() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, l.Len())
	for _, p := range l.include {
		out = append(out, p.raw)
	}
	for _, p := range l.exclude {
		out = append(out, p.raw)
	}
	return out
}

// IgnoreList is an ordered list of ignore patterns with gitignore-like
// evaluation.
//
// Patterns are anchored at the root; a pattern without "/" only matches
// entries at the top level. Every leading directory of a path is tested in
// turn and the last matching pattern decides. A trailing "/" restricts a
// pattern to directories, and an ignored directory ignores everything below
// it.
//
// Example:
//
//	l, _ := glob.CompileIgnores([]string{"*", "!src"})
//	l.Ignored("README.md")  // true
//	l.Ignored("src/app.ts") // false
type IgnoreList struct {
	patterns []*Pattern
}

// CompileIgnores compiles an ignore list. All malformed patterns are
// reported together.
func CompileIgnores(patterns []string) (*IgnoreList, error) {
	var result *multierror.Error
	l := &IgnoreList{}
	for _, raw := range patterns {
		p, err := compile(raw, true)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		l.patterns = append(l.patterns, p)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return l, nil
}

// Ignored reports whether path is ignored.
func (l *IgnoreList) Ignored(name string) bool {
	if l == nil || len(l.patterns) == 0 {
		return false
	}
	name = clean(name)
	if name == "" {
		return false
	}

	segments := strings.Split(name, "/")
	ignored := false
	for i := range segments {
		sub := strings.Join(segments[:i+1], "/")
		dir := i < len(segments)-1
		if decided, ok := l.decide(sub, dir); ok {
			ignored = decided
		}
		if ignored && dir {
			return true
		}
	}
	return ignored
}

func (l *IgnoreList) decide(name string, dir bool) (ignored bool, matched bool) {
	for _, p := range l.patterns {
		if p.dirOnly && !dir {
			continue
		}
		if p.matchBody(name) {
			ignored = !p.negated
			matched = true
		}
	}
	return ignored, matched
}

// Len returns the number of patterns in the list.
func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}
