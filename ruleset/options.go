package ruleset

import (
	"github.com/mitchellh/copystructure"
)

// Options is the opaque option payload of a rule entry.
//
// A nil Options means the entry carries no payload at all (a severity-only
// entry). A non-nil empty map is an explicit empty payload and replaces
// whatever options an earlier layer declared.
type Options map[string]any

// Clone returns a deep copy of the payload. Nil stays nil.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	copied, err := copystructure.Copy(map[string]any(o))
	if err != nil {
		shallow := make(Options, len(o))
		for k, v := range o {
			shallow[k] = v
		}
		return shallow
	}
	return Options(copied.(map[string]any))
}

// String extracts a string option.
func (o Options) String(key string, defaultVal string) string {
	v, ok := o[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool extracts a bool option.
func (o Options) Bool(key string, defaultVal bool) bool {
	v, ok := o[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int extracts an int option, handling float64 from JSON and cty.
func (o Options) Int(key string, defaultVal int) int {
	v, ok := o[key]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return defaultVal
	}
}

// StringSlice extracts a string slice option.
// Non-string items of an []any value are skipped.
func (o Options) StringSlice(key string, defaultVal []string) []string {
	v, ok := o[key]
	if !ok {
		return defaultVal
	}
	return toStringSlice(v, defaultVal)
}

// MapSlice extracts a list of objects, such as a naming-convention table.
func (o Options) MapSlice(key string) []map[string]any {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case []map[string]any:
		return s
	case []any:
		result := make([]map[string]any, 0, len(s))
		for _, item := range s {
			switch m := item.(type) {
			case map[string]any:
				result = append(result, m)
			case Options:
				result = append(result, m)
			}
		}
		return result
	default:
		return nil
	}
}

func toStringSlice(v any, defaultVal []string) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		return []string{s}
	default:
		return defaultVal
	}
}

// ToStringSlice converts a decoded list value to []string.
// A single string becomes a one-element slice; anything else returns nil.
func ToStringSlice(v any) []string {
	return toStringSlice(v, nil)
}
