// Package glob matches file paths against the patterns used by selectors
// and ignore lists.
//
// Patterns use forward slashes and are matched against paths relative to a
// declared root. The syntax is that of github.com/gobwas/glob with "/" as
// the separator:
//
//   - "*" matches any run of characters except "/"
//   - "**" matches any run of characters including "/"
//   - "?" matches one character, "[...]" a character class, "{a,b}" an
//     alternation
//
// On top of that:
//
//   - A leading "!" negates the pattern.
//   - A pattern without "/" matches the basename of a path at any depth, so
//     "*.ts" matches "src/app/main.ts".
//   - Each "**/" may also match zero directories, so "src/**/x.ts" matches
//     "src/x.ts".
package glob

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	gg "github.com/gobwas/glob"
)

// ErrMalformed is wrapped by every error returned for a pattern that fails
// to parse.
var ErrMalformed = errors.New("malformed glob pattern")

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed glob pattern %q", e.Pattern)
	}
	return fmt.Sprintf("malformed glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns both ErrMalformed and the parser error.
func (e *PatternError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

// Pattern is a compiled glob pattern.
type Pattern struct {
	raw      string
	negated  bool
	basename bool
	dirOnly  bool
	globs    []gg.Glob
}

// Compile parses a pattern.
//
// Example:
//
//	p, err := glob.Compile("src/**/*.tsx")
//	if err != nil {
//	    return err
//	}
//	p.Match("src/components/button.tsx") // true
func Compile(pattern string) (*Pattern, error) {
	return compile(pattern, false)
}

// MustCompile is like Compile but panics on a malformed pattern.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(pattern string, anchored bool) (*Pattern, error) {
	p := &Pattern{raw: pattern}

	body := strings.TrimSpace(pattern)
	if strings.HasPrefix(body, "!") {
		p.negated = true
		body = body[1:]
	}
	if anchored && strings.HasSuffix(body, "/") {
		p.dirOnly = true
		body = strings.TrimRight(body, "/")
	}
	body = strings.TrimPrefix(body, "./")
	body = strings.TrimPrefix(body, "/")
	if body == "" {
		return nil, &PatternError{Pattern: pattern}
	}

	p.basename = !anchored && !strings.Contains(body, "/")

	for _, variant := range expandGlobstar(body) {
		g, err := gg.Compile(variant, '/')
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// expandGlobstar returns the pattern plus every variant obtained by dropping
// one or more "**/" occurrences, which lets a globstar match zero
// directories.
func expandGlobstar(body string) []string {
	variants := []string{body}
	seen := map[string]bool{body: true}
	for i := 0; i < len(variants); i++ {
		v := variants[i]
		for start := 0; ; {
			idx := strings.Index(v[start:], "**/")
			if idx < 0 {
				break
			}
			idx += start
			reduced := v[:idx] + v[idx+3:]
			if !seen[reduced] {
				seen[reduced] = true
				variants = append(variants, reduced)
			}
			start = idx + 3
		}
	}
	return variants
}

// String returns the pattern as written.
func (p *Pattern) String() string { return p.raw }

// Negated reports whether the pattern starts with "!".
func (p *Pattern) Negated() bool { return p.negated }

// Match reports whether path matches the pattern, with negation applied.
func (p *Pattern) Match(name string) bool {
	return p.matchBody(clean(name)) != p.negated
}

// matchBody matches the pattern without its "!" prefix against an already
// cleaned path.
func (p *Pattern) matchBody(name string) bool {
	if name == "" {
		return false
	}
	subject := name
	if p.basename {
		subject = path.Base(name)
	}
	for _, g := range p.globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

// Matches compiles pattern and matches it against path. A malformed pattern
// matches nothing.
func Matches(pattern, name string) bool {
	p, err := Compile(pattern)
	if err != nil {
		return false
	}
	return p.Match(name)
}

// Normalize turns path into the form patterns are matched against: relative
// to root when path lies under it, forward slashes, no leading "./".
// Paths outside root are only cleaned.
func Normalize(root, name string) string {
	if root != "" && root != "." {
		rel, err := filepath.Rel(root, name)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			name = rel
		}
	}
	return clean(filepath.ToSlash(name))
}

func clean(name string) string {
	if name == "" {
		return ""
	}
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimPrefix(name, "/")
	if name == "." {
		return ""
	}
	return name
}
