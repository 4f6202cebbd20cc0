// Package helper provides testing utilities for lintstack rule sets and
// configurations. Use TestStack to build a layer stack from an HCL
// document and the assertions to check what it resolves to.
//
// Example:
//
//	func TestRecommended(t *testing.T) {
//	    stack := helper.TestStack(t, `
//	extends = ["plugin:unicorn/recommended"]
//
//	rule "unicorn/no-null" {
//	  severity = "off"
//	}
//	`, MyRuleSet)
//
//	    helper.AssertEffective(t, map[string]helper.Want{
//	        "unicorn/filename-case": {Severity: ruleset.ERROR, Options: ruleset.Options{"case": "kebabCase"}},
//	        "unicorn/no-null":       {Severity: ruleset.OFF},
//	    }, stack.Resolve("src/index.ts"))
//	}
package helper

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/loader"
	"github.com/jokarl/lintstack/ruleset"
)

// TestStack parses an HCL configuration document and builds its layer
// stack against the given rule sets. Parse and build errors fail the test.
// Build warnings are logged to the test output.
func TestStack(t *testing.T, src string, rulesets ...ruleset.RuleSet) *config.Stack {
	t.Helper()

	doc, diags := loader.ParseHCL([]byte(src), "lintstack.hcl")
	if diags.HasErrors() {
		t.Fatalf("failed to parse configuration: %s", diags.Error())
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "lintstack",
		Level:  hclog.Warn,
		Output: testWriter{t},
	})
	stack, err := doc.Build(rulesets, config.BuildOpts{Logger: logger})
	if err != nil {
		t.Fatalf("failed to build configuration: %s", err)
	}
	return stack
}

// RuleSet returns a rule set whose rules are plain definitions with the
// given names, all disabled by default.
//
// Example:
//
//	rs := helper.RuleSet("@typescript-eslint", "no-explicit-any", "naming-convention")
func RuleSet(namespace string, names ...string) *ruleset.BuiltinRuleSet {
	rules := make([]ruleset.Rule, len(names))
	for i, name := range names {
		rules[i] = &ruleset.RuleDef{RuleName: name}
	}
	return &ruleset.BuiltinRuleSet{
		Name:    namespace,
		Version: "0.0.0",
		Rules:   rules,
	}
}

// testWriter sends log lines to t.Log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
