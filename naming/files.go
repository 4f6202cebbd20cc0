package naming

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jokarl/lintstack/glob"
	"github.com/jokarl/lintstack/ruleset"
)

// CheckFilename checks the base name of a file against a format. The name
// is split at dots and every part must match, so "user-card.test.tsx"
// passes kebab-case. A leading dot is ignored.
func CheckFilename(name string, format Format) Result {
	base := strings.TrimPrefix(path.Base(glob.Normalize("", name)), ".")
	for _, part := range strings.Split(base, ".") {
		if !format.Match(part) {
			return Result{
				Reason:  FormatMismatch,
				Index:   -1,
				Message: fmt.Sprintf("filename %q is not in %s", path.Base(name), format),
			}
		}
	}
	return Result{Index: -1}
}

// FilenameFormat reads the "case" option of a filename-case rule payload.
func FilenameFormat(opts ruleset.Options) (Format, error) {
	return ParseFormat(opts.String("case", "kebabCase"))
}

// FolderRule requires every folder matched by Pattern to be named in Format.
type FolderRule struct {
	Pattern string
	Format  Format
}

// FolderRulesFromOptions decodes a folder-naming payload that maps glob
// patterns to format names, such as {"src/**/": "KEBAB_CASE"}. Rules are
// returned sorted by pattern.
func FolderRulesFromOptions(opts ruleset.Options) ([]FolderRule, error) {
	patterns := make([]string, 0, len(opts))
	for k := range opts {
		patterns = append(patterns, k)
	}
	sort.Strings(patterns)

	rules := make([]FolderRule, 0, len(patterns))
	for _, p := range patterns {
		s, ok := opts[p].(string)
		if !ok {
			return nil, fmt.Errorf("folder pattern %q: format must be a string", p)
		}
		f, err := ParseFormat(s)
		if err != nil {
			return nil, fmt.Errorf("folder pattern %q: %w", p, err)
		}
		rules = append(rules, FolderRule{Pattern: p, Format: f})
	}
	return rules, nil
}

// CheckFolders checks the folders leading to a file. A folder is checked
// by the first rule whose pattern, without its trailing "/", matches the
// folder path. The first violation is returned.
func CheckFolders(name string, rules []FolderRule) (Result, error) {
	compiled := make([]*glob.Pattern, len(rules))
	for i, r := range rules {
		p, err := glob.Compile(strings.TrimSuffix(r.Pattern, "/"))
		if err != nil {
			return Result{}, err
		}
		compiled[i] = p
	}

	dir := path.Dir(glob.Normalize("", name))
	if dir == "." || dir == "" {
		return Result{Index: -1}, nil
	}
	segments := strings.Split(dir, "/")
	for i := range segments {
		folder := strings.Join(segments[:i+1], "/")
		for j, p := range compiled {
			if !p.Match(folder) {
				continue
			}
			if !rules[j].Format.Match(segments[i]) {
				return Result{
					Reason:  FormatMismatch,
					Index:   j,
					Message: fmt.Sprintf("folder %q does not match %s", folder, rules[j].Format),
				}, nil
			}
			break
		}
	}
	return Result{Index: -1}, nil
}
