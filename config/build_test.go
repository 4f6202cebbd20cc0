package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/jokarl/lintstack/ruleset"
)

func TestBuild_LayerOrder(t *testing.T) {
	reg := testRegistry(t, Preset{Name: "P", Layers: []Layer{{Entries: []ruleset.RuleEntry{entry("R1", ruleset.ERROR, nil)}}}})

	s := testStack(t, reg, Input{
		Extends:   []string{"P", "plugin:@typescript-eslint/recommended"},
		Plugins:   []string{"unicorn"},
		Rules:     []ruleset.RuleEntry{entry("R2", ruleset.WARN, nil)},
		Overrides: []Layer{{Selector: files("src/legacy/**"), Entries: []ruleset.RuleEntry{entry("R1", ruleset.OFF, nil)}}},
	})

	want := []string{"P", "plugin:@typescript-eslint/recommended", "plugin unicorn defaults", "rules", "overrides[0]"}
	if diff := cmp.Diff(want, layerNames(s.Layers())); diff != "" {
		t.Errorf("layer order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PluginDefaultsFollowPresets(t *testing.T) {
	reg := testRegistry(t)

	s := testStack(t, reg, Input{
		Extends: []string{"plugin:@typescript-eslint/recommended"},
		Plugins: []string{"@typescript-eslint"},
		Rules:   []ruleset.RuleEntry{entry("@typescript-eslint/no-explicit-any", ruleset.OFF, nil)},
	})

	want := map[string]ResolvedRule{
		"@typescript-eslint/no-unused-vars": {
			Severity: ruleset.ERROR,
			Options:  ruleset.Options{"args": "all"},
			Layer:    "plugin @typescript-eslint defaults",
		},
		"@typescript-eslint/no-explicit-any": {Severity: ruleset.OFF, Layer: "rules"},
	}
	if diff := cmp.Diff(want, s.Resolve("src/a.ts").Map()); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_UnknownRulesAreWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})

	s, err := Build(testRegistry(t), Input{
		Plugins: []string{"tailwindcss"},
		Rules: []ruleset.RuleEntry{
			entry("@typescript-eslint/nope", ruleset.ERROR, nil),
			entry("react/prop-types", ruleset.OFF, nil),
			entry("R1", ruleset.WARN, nil),
		},
	}, BuildOpts{Logger: logger})
	if err != nil {
		t.Fatalf("Build() error = %v, unknown rules must not be fatal", err)
	}

	var kinds []WarningKind
	var ids []string
	for _, w := range s.Warnings() {
		kinds = append(kinds, w.Kind)
		ids = append(ids, w.RuleID)
	}
	if diff := cmp.Diff([]WarningKind{WarnUnknownPlugin, WarnUnknownRule, WarnUnknownPlugin}, kinds); diff != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "@typescript-eslint/nope", "react/prop-types"}, ids); diff != "" {
		t.Errorf("warning rule ids mismatch (-want +got):\n%s", diff)
	}

	cfg := s.Resolve("a.ts")
	if diff := cmp.Diff([]string{"R1"}, cfg.IDs()); diff != "" {
		t.Errorf("unknown rules should be dropped (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "react/prop-types") {
		t.Errorf("warning not logged, log output:\n%s", buf.String())
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	_, err := Build(testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{
			entry("unicorn/filename-case", ruleset.ERROR, ruleset.Options{"case": "shouting"}),
		},
	}, BuildOpts{})

	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("Build() error = %v, want ErrInvalidOptions", err)
	}
	var ioe *InvalidOptionsError
	if !errors.As(err, &ioe) {
		t.Fatalf("Build() error type = %T, want *InvalidOptionsError", err)
	}
	if ioe.RuleID != "unicorn/filename-case" || ioe.Layer != "rules" {
		t.Errorf("InvalidOptionsError = %+v", ioe)
	}
}

func TestBuild_ValidOptionsAccepted(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{
			entry("unicorn/filename-case", ruleset.ERROR, ruleset.Options{"case": "kebabCase"}),
		},
	})
	if !s.Resolve("src/a.ts").Active("unicorn/filename-case") {
		t.Error("unicorn/filename-case should be active")
	}
}

func TestBuild_MalformedSelectorNamesLayer(t *testing.T) {
	_, err := Build(testRegistry(t), Input{
		Overrides: []Layer{
			{Name: "legacy", Selector: files("src/[legacy"), Entries: []ruleset.RuleEntry{entry("R1", ruleset.OFF, nil)}},
		},
	}, BuildOpts{})

	if !errors.Is(err, ErrMalformedSelector) {
		t.Fatalf("Build() error = %v, want ErrMalformedSelector", err)
	}
	var mse *MalformedSelectorError
	if !errors.As(err, &mse) {
		t.Fatalf("Build() error type = %T, want *MalformedSelectorError", err)
	}
	if mse.Pattern != "src/[legacy" || mse.Layer != "legacy" {
		t.Errorf("MalformedSelectorError = %+v", mse)
	}
	if !strings.Contains(err.Error(), "src/[legacy") || !strings.Contains(err.Error(), `"legacy"`) {
		t.Errorf("Error() = %q, want it to name the pattern and the layer", err)
	}
}

func TestBuild_MalformedIgnore(t *testing.T) {
	_, err := Build(testRegistry(t), Input{Ignores: []string{"dist/", "[x"}}, BuildOpts{})

	var mse *MalformedSelectorError
	if !errors.As(err, &mse) {
		t.Fatalf("Build() error = %v, want *MalformedSelectorError", err)
	}
	if mse.Pattern != "[x" || mse.Layer != "ignores" {
		t.Errorf("MalformedSelectorError = %+v", mse)
	}
}

func TestBuild_CollectsAllFatalErrors(t *testing.T) {
	reg := testRegistry(t,
		Preset{Name: "A", Extends: []string{"B"}},
		Preset{Name: "B", Extends: []string{"A"}},
	)

	_, err := Build(reg, Input{
		Extends:   []string{"missing", "A"},
		Overrides: []Layer{{Selector: files("[bad")}},
	}, BuildOpts{})
	if err == nil {
		t.Fatal("Build() error = nil, want errors")
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Build() error type = %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("Build() returned %d errors, want 3: %v", len(merr.Errors), err)
	}
	for _, sentinel := range []error{ErrUnknownPreset, ErrCyclicPreset, ErrMalformedSelector} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = false", sentinel)
		}
	}

	var upe *UnknownPresetError
	if errors.As(err, &upe) && upe.Layer != "extends" {
		t.Errorf("UnknownPresetError.Layer = %q, want %q", upe.Layer, "extends")
	}
}

func TestBuild_MergeModeDefaultsToRule(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{
			entry("no-restricted-imports", ruleset.ERROR, ruleset.Options{"patterns": []any{"@/features/*/*"}}),
		},
		Overrides: []Layer{
			{
				Name:     "app",
				Selector: files("src/app/**"),
				Entries:  []ruleset.RuleEntry{entry("no-restricted-imports", ruleset.ERROR, ruleset.Options{"patterns": []any{"@features/*/*"}})},
			},
			{
				Name:     "legacy",
				Selector: files("src/legacy/**"),
				Entries: []ruleset.RuleEntry{{
					ID:       "no-restricted-imports",
					Severity: ruleset.WARN,
					Options:  ruleset.Options{"patterns": []any{"lodash"}},
					Merge:    ruleset.MergeReplace,
				}},
			},
		},
	})

	tests := []struct {
		path string
		want []any
	}{
		{"src/app/main.ts", []any{"@/features/*/*", "@features/*/*"}},
		{"src/legacy/old.ts", []any{"lodash"}},
		{"src/lib/util.ts", []any{"@/features/*/*"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, ok := s.Resolve(tt.path).Get("no-restricted-imports")
			if !ok {
				t.Fatal("no-restricted-imports not resolved")
			}
			if diff := cmp.Diff(tt.want, r.Options["patterns"]); diff != "" {
				t.Errorf("patterns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	opts := ruleset.Options{"a": 1}
	in := Input{
		Rules:    []ruleset.RuleEntry{entry("R", ruleset.WARN, opts)},
		Settings: map[string]any{"react": map[string]any{"version": "detect"}},
	}
	s := testStack(t, testRegistry(t), in)

	opts["a"] = 2
	in.Settings["react"].(map[string]any)["version"] = "18"

	r, _ := s.Resolve("x.ts").Get("R")
	if diff := cmp.Diff(ruleset.Options{"a": 1}, r.Options); diff != "" {
		t.Errorf("stack aliases input options (-want +got):\n%s", diff)
	}
	want := map[string]any{"react": map[string]any{"version": "detect"}}
	if diff := cmp.Diff(want, s.Settings()); diff != "" {
		t.Errorf("stack aliases input settings (-want +got):\n%s", diff)
	}
}

func TestBuild_NilRegistry(t *testing.T) {
	s, err := Build(nil, Input{Rules: []ruleset.RuleEntry{entry("R", ruleset.ERROR, nil)}}, BuildOpts{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := len(s.Warnings()); got != 1 {
		t.Errorf("Warnings() = %d, want 1", got)
	}
	if s.Resolve("a.ts").Len() != 0 {
		t.Error("nothing should resolve without a registry")
	}
}

func TestNewRegistry_Duplicates(t *testing.T) {
	sets := testRuleSets()
	sets = append(sets, &ruleset.BuiltinRuleSet{Name: "unicorn"})

	_, err := NewRegistry(sets, Preset{Name: "plugin:@typescript-eslint/recommended"})
	if err == nil {
		t.Fatal("NewRegistry() error = nil, want duplicates reported")
	}
	for _, want := range []string{`rule set "unicorn"`, `preset "plugin:@typescript-eslint/recommended"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("NewRegistry() error = %q, want it to mention %s", err, want)
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := testRegistry(t, Preset{Name: "prettier"})

	if _, ok := reg.Rule("@typescript-eslint/no-explicit-any"); !ok {
		t.Error("Rule(@typescript-eslint/no-explicit-any) not found")
	}
	if _, ok := reg.Rule("R1"); !ok {
		t.Error("core rule R1 not found under its bare id")
	}
	want := []string{"plugin:@typescript-eslint/recommended", "plugin:@typescript-eslint/strict", "prettier"}
	if diff := cmp.Diff(want, reg.PresetNames()); diff != "" {
		t.Errorf("PresetNames() mismatch (-want +got):\n%s", diff)
	}
}
