package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Format is a case style a name can be checked against.
type Format int

const (
	CamelCase Format = iota + 1
	StrictCamelCase
	PascalCase
	StrictPascalCase
	SnakeCase
	UpperCase
	KebabCase
)

// String returns the canonical spelling of the format.
func (f Format) String() string {
	switch f {
	case CamelCase:
		return "camelCase"
	case StrictCamelCase:
		return "strictCamelCase"
	case PascalCase:
		return "PascalCase"
	case StrictPascalCase:
		return "StrictPascalCase"
	case SnakeCase:
		return "snake_case"
	case UpperCase:
		return "UPPER_CASE"
	case KebabCase:
		return "kebab-case"
	default:
		return "unknown"
	}
}

var formatAliases = map[string]Format{
	"camelcase":            CamelCase,
	"camel_case":           CamelCase,
	"strictcamelcase":      StrictCamelCase,
	"pascalcase":           PascalCase,
	"pascal_case":          PascalCase,
	"strictpascalcase":     StrictPascalCase,
	"snake_case":           SnakeCase,
	"snakecase":            SnakeCase,
	"upper_case":           UpperCase,
	"uppercase":            UpperCase,
	"screaming_snake_case": UpperCase,
	"kebab-case":           KebabCase,
	"kebabcase":            KebabCase,
	"kebab_case":           KebabCase,
}

// ParseFormat accepts the canonical spellings and the aliases used by
// common lint plugins, such as "kebabCase" and "KEBAB_CASE".
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown naming format %q", s)
}

// Match reports whether name is written in the format. The empty name
// matches every format.
func (f Format) Match(name string) bool {
	if name == "" {
		return true
	}
	first := []rune(name)[0]
	switch f {
	case CamelCase:
		return !unicode.IsUpper(first) && !strings.ContainsAny(name, "_-")
	case StrictCamelCase:
		return CamelCase.Match(name) && !hasUpperRun(name)
	case PascalCase:
		return unicode.IsUpper(first) && !strings.ContainsAny(name, "_-")
	case StrictPascalCase:
		return PascalCase.Match(name) && !hasUpperRun(name)
	case SnakeCase:
		return name == strings.ToLower(name) && !strings.Contains(name, "-") && validSeparators(name, '_')
	case UpperCase:
		return name == strings.ToUpper(name) && !strings.Contains(name, "-") && validSeparators(name, '_')
	case KebabCase:
		return name == strings.ToLower(name) && !strings.Contains(name, "_") && validSeparators(name, '-')
	default:
		return false
	}
}

// hasUpperRun reports two consecutive uppercase letters.
func hasUpperRun(name string) bool {
	prev := false
	for _, r := range name {
		upper := unicode.IsUpper(r)
		if upper && prev {
			return true
		}
		prev = upper
	}
	return false
}

// validSeparators rejects leading, trailing and doubled separators.
func validSeparators(name string, sep byte) bool {
	if name[0] == sep || name[len(name)-1] == sep {
		return false
	}
	return !strings.Contains(name, string([]byte{sep, sep}))
}

// Underscore controls the leading underscore marker of a name.
type Underscore int

const (
	// UnderscoreUnset leaves the name untouched; an underscore then takes
	// part in the format check.
	UnderscoreUnset Underscore = iota
	// UnderscoreForbid rejects names with a leading underscore.
	UnderscoreForbid
	// UnderscoreAllow strips one optional leading underscore.
	UnderscoreAllow
	// UnderscoreRequire requires one leading underscore.
	UnderscoreRequire
	// UnderscoreRequireDouble requires two leading underscores.
	UnderscoreRequireDouble
	// UnderscoreAllowDouble strips two optional leading underscores.
	UnderscoreAllowDouble
	// UnderscoreAllowSingleOrDouble strips one or two optional leading
	// underscores.
	UnderscoreAllowSingleOrDouble
)

// String returns the configuration spelling of the marker mode.
func (u Underscore) String() string {
	switch u {
	case UnderscoreUnset:
		return ""
	case UnderscoreForbid:
		return "forbid"
	case UnderscoreAllow:
		return "allow"
	case UnderscoreRequire:
		return "require"
	case UnderscoreRequireDouble:
		return "requireDouble"
	case UnderscoreAllowDouble:
		return "allowDouble"
	case UnderscoreAllowSingleOrDouble:
		return "allowSingleOrDouble"
	default:
		return "unknown"
	}
}

// ParseUnderscore converts a configuration value. The empty string is
// UnderscoreUnset.
func ParseUnderscore(s string) (Underscore, error) {
	for u := UnderscoreUnset; u <= UnderscoreAllowSingleOrDouble; u++ {
		if strings.EqualFold(u.String(), strings.TrimSpace(s)) {
			return u, nil
		}
	}
	return UnderscoreUnset, fmt.Errorf("unknown leading underscore mode %q", s)
}
