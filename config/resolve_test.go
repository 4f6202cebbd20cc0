package config

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jokarl/lintstack/ruleset"
)

func TestResolve_SeverityOnlyOverrideKeepsOptions(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{entry("R", ruleset.WARN, ruleset.Options{})},
		Overrides: []Layer{
			{Name: "tests", Selector: files("**/*.test.ts"), Entries: []ruleset.RuleEntry{entry("R", ruleset.ERROR, nil)}},
		},
	})

	got, ok := s.Resolve("src/a.test.ts").Get("R")
	if !ok {
		t.Fatal("R not resolved")
	}
	if got.Options == nil {
		t.Fatal("Options = nil, want the empty payload of the base layer")
	}
	want := ResolvedRule{Severity: ruleset.ERROR, Options: ruleset.Options{}, Layer: "tests"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get(R) mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_OptionsReplaceVerbatim(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{entry("R", ruleset.WARN, ruleset.Options{"a": 1})},
		Overrides: []Layer{
			{Name: "src", Selector: files("src/**"), Entries: []ruleset.RuleEntry{entry("R", ruleset.ERROR, ruleset.Options{"b": 2})}},
		},
	})

	got, _ := s.Resolve("src/x.ts").Get("R")
	want := ResolvedRule{Severity: ruleset.ERROR, Options: ruleset.Options{"b": 2}, Layer: "src"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get(R) mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_SelectorOrWithinGroup(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Overrides: []Layer{
			{Name: "ts", Selector: files("*.ts", "*.tsx"), Entries: []ruleset.RuleEntry{entry("R", ruleset.ERROR, nil)}},
		},
	})

	tests := []struct {
		path string
		want bool
	}{
		{"foo.tsx", true},
		{"foo.ts", true},
		{"foo.js", false},
		{"src/deep/foo.ts", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := s.Resolve(tt.path).Active("R"); got != tt.want {
				t.Errorf("Active(R) for %s = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_SelectorAndAcrossGroups(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Overrides: []Layer{{
			Name: "src-ts",
			Selector: &Selector{
				Files:   [][]string{{"src/**"}, {"*.ts", "*.tsx"}},
				Ignores: []string{"**/*.d.ts"},
			},
			Entries: []ruleset.RuleEntry{entry("R", ruleset.ERROR, nil)},
		}},
	})

	tests := []struct {
		path string
		want bool
	}{
		{"src/a.ts", true},
		{"src/ui/b.tsx", true},
		{"lib/a.ts", false},
		{"src/a.js", false},
		{"src/types.d.ts", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := s.Resolve(tt.path).Active("R"); got != tt.want {
				t.Errorf("Active(R) for %s = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_Languages(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Overrides: []Layer{{
			Name:     "typescript only",
			Selector: &Selector{Languages: []string{"typescript", "typescriptreact"}},
			Entries:  []ruleset.RuleEntry{entry("R", ruleset.WARN, nil)},
		}},
	})

	if !s.Resolve("a.ts").Active("R") {
		t.Error("a.ts should match the typescript language filter")
	}
	if s.Resolve("a.js").Active("R") {
		t.Error("a.js should not match the typescript language filter")
	}
	if !s.ResolveTarget(Target{Path: "a.vue", Language: "TypeScript"}).Active("R") {
		t.Error("explicit language should override the extension")
	}
}

func TestResolve_AbsentRuleIsInactive(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Overrides: []Layer{{Selector: files("src/**"), Entries: []ruleset.RuleEntry{entry("R", ruleset.ERROR, nil)}}},
	})

	cfg := s.Resolve("docs/readme.md")
	if _, ok := cfg.Get("R"); ok {
		t.Error("Get(R) reported a rule no matching layer declares")
	}
	if cfg.Severity("R") != ruleset.OFF || cfg.Active("R") {
		t.Errorf("absent rule resolved to %v, want off", cfg.Severity("R"))
	}
	if cfg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cfg.Len())
	}
}

func TestResolve_EndToEnd(t *testing.T) {
	reg := testRegistry(t, Preset{Name: "P", Layers: []Layer{{Entries: []ruleset.RuleEntry{entry("R1", ruleset.ERROR, nil)}}}})
	s := testStack(t, reg, Input{
		Extends:   []string{"P"},
		Rules:     []ruleset.RuleEntry{entry("R2", ruleset.WARN, nil)},
		Overrides: []Layer{{Selector: files("src/legacy/**"), Entries: []ruleset.RuleEntry{entry("R1", ruleset.OFF, nil)}}},
	})

	tests := []struct {
		path string
		want map[string]ruleset.Severity
	}{
		{"src/legacy/x.ts", map[string]ruleset.Severity{"R1": ruleset.OFF, "R2": ruleset.WARN}},
		{"src/app.ts", map[string]ruleset.Severity{"R1": ruleset.ERROR, "R2": ruleset.WARN}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := make(map[string]ruleset.Severity)
			for id, r := range s.Resolve(tt.path).Map() {
				got[id] = r.Severity
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%s) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	reg := testRegistry(t)
	s := testStack(t, reg, Input{
		Extends: []string{"plugin:@typescript-eslint/strict"},
		Plugins: []string{"@typescript-eslint", "unicorn"},
		Rules:   []ruleset.RuleEntry{entry("no-restricted-imports", ruleset.ERROR, ruleset.Options{"patterns": []any{"a"}})},
		Overrides: []Layer{
			{Selector: files("src/**"), Entries: []ruleset.RuleEntry{entry("no-restricted-imports", ruleset.ERROR, ruleset.Options{"patterns": []any{"b"}})}},
		},
	})

	first := s.Resolve("src/a.ts").Map()
	for i := 0; i < 50; i++ {
		if diff := cmp.Diff(first, s.Resolve("src/a.ts").Map()); diff != "" {
			t.Fatalf("Resolve() not deterministic on call %d (-first +got):\n%s", i, diff)
		}
	}
}

func TestResolve_ConcurrentReaders(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Plugins:   []string{"@typescript-eslint"},
		Overrides: []Layer{{Selector: files("src/legacy/**"), Entries: []ruleset.RuleEntry{entry("@typescript-eslint/no-explicit-any", ruleset.OFF, nil)}}},
	})
	want := s.Resolve("src/legacy/a.ts").Map()

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if diff := cmp.Diff(want, s.Resolve("src/legacy/a.ts").Map()); diff != "" {
					errs <- diff
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for diff := range errs {
		t.Errorf("concurrent Resolve() mismatch:\n%s", diff)
	}
}

func TestEffectiveConfig_IsAValue(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{entry("R", ruleset.ERROR, ruleset.Options{"list": []any{"x"}})},
	})
	cfg := s.Resolve("a.ts")

	r, _ := cfg.Get("R")
	r.Options["list"].([]any)[0] = "changed"
	r.Options["extra"] = true
	cfg.Map()["R"].Options["extra"] = true

	again, _ := s.Resolve("a.ts").Get("R")
	if diff := cmp.Diff(ruleset.Options{"list": []any{"x"}}, again.Options); diff != "" {
		t.Errorf("mutating a resolved config leaked into the stack (-want +got):\n%s", diff)
	}
	same, _ := cfg.Get("R")
	if diff := cmp.Diff(ruleset.Options{"list": []any{"x"}}, same.Options); diff != "" {
		t.Errorf("mutating Get() result changed the config (-want +got):\n%s", diff)
	}
}

func TestEffectiveConfig_IDs(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Rules: []ruleset.RuleEntry{
			entry("R2", ruleset.WARN, nil),
			entry("R1", ruleset.OFF, nil),
			entry("R", ruleset.ERROR, nil),
		},
	})
	cfg := s.Resolve("a.ts")

	if diff := cmp.Diff([]string{"R", "R1", "R2"}, cfg.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"R", "R2"}, cfg.ActiveIDs()); diff != "" {
		t.Errorf("ActiveIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestStack_Ignored(t *testing.T) {
	s := testStack(t, testRegistry(t), Input{
		Ignores: []string{"*", "!src"},
		Rules:   []ruleset.RuleEntry{entry("R1", ruleset.ERROR, nil)},
	})

	if !s.Ignored("eslint.config.mjs") {
		t.Error("top-level files should be ignored")
	}
	if s.Ignored("src/main.tsx") {
		t.Error("files under src should not be ignored")
	}
	if !s.Resolve("eslint.config.mjs").Active("R1") {
		t.Error("ignored files still resolve")
	}
}

func TestStack_Root(t *testing.T) {
	root := filepath.FromSlash("/repo/web")
	s, err := Build(testRegistry(t), Input{
		Ignores:   []string{"dist/"},
		Overrides: []Layer{{Selector: files("src/legacy/**"), Entries: []ruleset.RuleEntry{entry("R1", ruleset.WARN, nil)}}},
	}, BuildOpts{Root: root})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	cfg := s.Resolve(filepath.Join(root, "src", "legacy", "x.ts"))
	if cfg.Path() != "src/legacy/x.ts" {
		t.Errorf("Path() = %q, want %q", cfg.Path(), "src/legacy/x.ts")
	}
	if !cfg.Active("R1") {
		t.Error("override should apply to absolute paths under the root")
	}
	if !s.Ignored(filepath.Join(root, "dist", "main.js")) {
		t.Error("ignore list should apply to absolute paths under the root")
	}
}

func TestLanguageOf(t *testing.T) {
	tests := map[string]string{
		"a.ts":      "typescript",
		"b.TSX":     "typescriptreact",
		"c.mjs":     "javascript",
		"d.unknown": "",
		"Makefile":  "",
	}
	for name, want := range tests {
		if got := LanguageOf(name); got != want {
			t.Errorf("LanguageOf(%q) = %q, want %q", name, got, want)
		}
	}
}
