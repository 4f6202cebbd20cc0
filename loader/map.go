package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/ruleset"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a configuration document in the map form:
//
//	extends: [recommended]
//	rules:
//	  no-console: warn
//	  no-unused-vars: [error, {args: all}]
//	  no-restricted-imports: {severity: error, merge: append, options: {patterns: [lodash]}}
//	overrides:
//	  - files: ["**/*.test.ts"]
//	    rules:
//	      no-console: off
func ParseYAML(src []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return decodeMap(raw)
}

// ParseTOML parses a configuration document in the map form, written as
// TOML:
//
//	extends = ["recommended"]
//
//	[rules]
//	no-console = "warn"
//	no-unused-vars = ["error", { args = "all" }]
//
//	[[overrides]]
//	files = ["**/*.test.ts"]
//	rules = { no-console = "off" }
func ParseTOML(src []byte) (*Document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return decodeMap(normalize(raw).(map[string]any))
}

var documentKeys = map[string]bool{
	"extends": true, "plugins": true, "ignores": true, "settings": true,
	"rules": true, "overrides": true, "presets": true,
}

func decodeMap(raw map[string]any) (*Document, error) {
	var errs *multierror.Error
	doc := &Document{}

	for _, key := range sortedKeys(raw) {
		if !documentKeys[key] {
			errs = multierror.Append(errs, fmt.Errorf("%s: unknown key", key))
		}
	}

	var err error
	if doc.Extends, err = stringList(raw["extends"]); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("extends: %w", err))
	}
	if doc.Plugins, err = stringList(raw["plugins"]); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("plugins: %w", err))
	}
	if doc.Ignores, err = stringList(raw["ignores"]); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("ignores: %w", err))
	}
	if v, ok := raw["settings"]; ok && v != nil {
		settings, ok := v.(map[string]any)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("settings: must be a map, got %T", v))
		}
		doc.Settings = settings
	}

	rules, err := decodeRules("rules", raw["rules"])
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	doc.Rules = rules

	overrides, err := decodeOverrides("overrides", raw["overrides"])
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	doc.Overrides = overrides

	if v, ok := raw["presets"]; ok && v != nil {
		presets, ok := v.(map[string]any)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("presets: must be a map, got %T", v))
		}
		for _, name := range sortedKeys(presets) {
			preset, err := decodeMapPreset(name, presets[name])
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			doc.Presets = append(doc.Presets, preset)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeRules decodes a rules map. Rule IDs are sorted since map order is
// not preserved by the decoders.
func decodeRules(path string, v any) ([]ruleset.RuleEntry, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: must be a map, got %T", path, v)
	}

	var errs *multierror.Error
	entries := make([]ruleset.RuleEntry, 0, len(m))
	for _, id := range sortedKeys(m) {
		entry, err := decodeEntry(id, m[id])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s.%s: %w", path, id, err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, errs.ErrorOrNil()
}

// decodeEntry accepts the three entry shapes: a bare severity, a
// [severity, options] list, and a {severity, options, merge} map.
func decodeEntry(id string, v any) (ruleset.RuleEntry, error) {
	entry := ruleset.RuleEntry{ID: id}
	switch t := v.(type) {
	case []any:
		if len(t) == 0 || len(t) > 2 {
			return entry, fmt.Errorf("expected [severity] or [severity, options], got %d elements", len(t))
		}
		sev, err := severityOf(t[0])
		if err != nil {
			return entry, err
		}
		entry.Severity = sev
		if len(t) == 2 {
			opts, err := optionsOf(t[1])
			if err != nil {
				return entry, err
			}
			entry.Options = opts
		}
	case map[string]any:
		for _, key := range sortedKeys(t) {
			switch key {
			case "severity", "options", "merge":
			default:
				return entry, fmt.Errorf("unknown key %q", key)
			}
		}
		sev, err := severityOf(t["severity"])
		if err != nil {
			return entry, err
		}
		entry.Severity = sev
		if entry.Options, err = optionsOf(t["options"]); err != nil {
			return entry, err
		}
		if m, ok := t["merge"]; ok {
			s, ok := m.(string)
			if !ok {
				return entry, fmt.Errorf("merge must be a string, got %T", m)
			}
			if entry.Merge, err = ruleset.ParseMergeMode(s); err != nil {
				return entry, err
			}
		}
	default:
		sev, err := severityOf(v)
		if err != nil {
			return entry, err
		}
		entry.Severity = sev
	}
	return entry, nil
}

func decodeOverrides(path string, v any) ([]config.Layer, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: must be a list, got %T", path, v)
	}

	var errs *multierror.Error
	layers := make([]config.Layer, 0, len(list))
	for i, item := range list {
		layer, err := decodeMapOverride(item)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s[%d]: %w", path, i, err))
			continue
		}
		layers = append(layers, layer)
	}
	return layers, errs.ErrorOrNil()
}

func decodeMapOverride(v any) (config.Layer, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return config.Layer{}, fmt.Errorf("must be a map, got %T", v)
	}
	for _, key := range sortedKeys(m) {
		switch key {
		case "name", "files", "ignores", "languages", "rules":
		default:
			return config.Layer{}, fmt.Errorf("%s: unknown key", key)
		}
	}

	layer := config.Layer{Selector: &config.Selector{}}
	if name, ok := m["name"].(string); ok {
		layer.Name = name
	}
	files, err := fileGroups(m["files"])
	if err != nil {
		return layer, fmt.Errorf("files: %w", err)
	}
	layer.Selector.Files = files
	if layer.Selector.Ignores, err = stringList(m["ignores"]); err != nil {
		return layer, fmt.Errorf("ignores: %w", err)
	}
	if layer.Selector.Languages, err = stringList(m["languages"]); err != nil {
		return layer, fmt.Errorf("languages: %w", err)
	}
	entries, err := decodeRules("rules", m["rules"])
	if err != nil {
		return layer, err
	}
	layer.Entries = entries
	return layer, nil
}

func decodeMapPreset(name string, v any) (config.Preset, error) {
	preset := config.Preset{Name: name}
	m, ok := v.(map[string]any)
	if !ok {
		return preset, fmt.Errorf("presets.%s: must be a map, got %T", name, v)
	}

	var err error
	if preset.Extends, err = stringList(m["extends"]); err != nil {
		return preset, fmt.Errorf("presets.%s.extends: %w", name, err)
	}
	base := config.Layer{Name: name}
	files, err := stringList(m["files"])
	if err != nil {
		return preset, fmt.Errorf("presets.%s.files: %w", name, err)
	}
	if len(files) > 0 {
		base.Selector = &config.Selector{Files: [][]string{files}}
	}
	if base.Entries, err = decodeRules("presets."+name+".rules", m["rules"]); err != nil {
		return preset, err
	}
	if len(base.Entries) > 0 {
		preset.Layers = append(preset.Layers, base)
	}

	overrides, err := decodeOverrides("presets."+name+".overrides", m["overrides"])
	if err != nil {
		return preset, err
	}
	for i, layer := range overrides {
		if layer.Name == "" {
			layer.Name = fmt.Sprintf("%s/overrides[%d]", name, i)
		}
		preset.Layers = append(preset.Layers, layer)
	}
	return preset, nil
}

// fileGroups accepts a single pattern, a list of patterns (one OR group)
// or a list of lists (groups that must all match).
func fileGroups(v any) ([][]string, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return [][]string{{s}}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be a string or a list, got %T", v)
	}

	var flat []string
	var groups [][]string
	for _, item := range list {
		switch t := item.(type) {
		case string:
			flat = append(flat, t)
		case []any:
			group, err := stringList(t)
			if err != nil {
				return nil, err
			}
			groups = append(groups, group)
		default:
			return nil, fmt.Errorf("must contain strings or lists of strings, got %T", item)
		}
	}
	if len(flat) > 0 && len(groups) > 0 {
		return nil, fmt.Errorf("cannot mix patterns and pattern groups")
	}
	if len(flat) > 0 {
		return [][]string{flat}, nil
	}
	return groups, nil
}

// severityOf converts a string or numeric severity.
func severityOf(v any) (ruleset.Severity, error) {
	switch t := v.(type) {
	case string:
		return ruleset.ParseSeverity(t)
	case int:
		return ruleset.ParseSeverity(fmt.Sprint(t))
	case bool:
		// false reads as off
		if !t {
			return ruleset.OFF, nil
		}
	case nil:
		return ruleset.OFF, fmt.Errorf("severity is required")
	}
	return ruleset.OFF, fmt.Errorf("invalid severity %v", v)
}

func optionsOf(v any) (ruleset.Options, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("options must be a map, got %T", v)
	}
	return ruleset.Options(m), nil
}

func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of strings, got %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings, got %T", v)
	}
}

// normalize converts decoder-specific scalar types to the ones used
// everywhere else: int64 becomes int.
func normalize(v any) any {
	switch t := v.(type) {
	case int64:
		return int(t)
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
