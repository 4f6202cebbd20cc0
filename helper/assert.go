package helper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/naming"
	"github.com/jokarl/lintstack/ruleset"
)

// Want is the expected resolution of one rule.
type Want struct {
	Severity ruleset.Severity
	// Options is compared only when non-nil.
	Options ruleset.Options
	// Layer is compared only when non-empty.
	Layer string
}

// AssertEffective compares the rules of an effective configuration with
// the expected ones. Every rule in got must be listed in want and the
// other way round.
//
// Example:
//
//	helper.AssertEffective(t, map[string]helper.Want{
//	    "no-console": {Severity: ruleset.WARN},
//	}, stack.Resolve("src/main.ts"))
func AssertEffective(t *testing.T, want map[string]Want, got config.EffectiveConfig) {
	t.Helper()

	actual := make(map[string]Want, got.Len())
	for id, r := range got.Map() {
		w := Want{Severity: r.Severity, Options: r.Options, Layer: r.Layer}
		if exp, ok := want[id]; ok {
			// fields left empty in want are not compared
			if exp.Options == nil {
				w.Options = nil
			}
			if exp.Layer == "" {
				w.Layer = ""
			}
		}
		actual[id] = w
	}

	if diff := cmp.Diff(want, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("effective configuration for %q mismatch (-want +got):\n%s", got.Path(), diff)
	}
}

// AssertActive checks the IDs of the rules turned on for a file,
// ignoring order.
func AssertActive(t *testing.T, want []string, got config.EffectiveConfig) {
	t.Helper()

	opts := []cmp.Option{
		cmpopts.EquateEmpty(),
		cmpopts.SortSlices(func(a, b string) bool { return a < b }),
	}
	if diff := cmp.Diff(want, got.ActiveIDs(), opts...); diff != "" {
		t.Errorf("active rules for %q mismatch (-want +got):\n%s", got.Path(), diff)
	}
}

// AssertWarnings compares build warnings, ignoring order and messages.
func AssertWarnings(t *testing.T, want, got []config.Warning) {
	t.Helper()

	opts := []cmp.Option{
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(config.Warning{}, "Message"),
		cmpopts.SortSlices(func(a, b config.Warning) bool {
			if a.RuleID != b.RuleID {
				return a.RuleID < b.RuleID
			}
			return a.Layer < b.Layer
		}),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

// AssertNoWarnings verifies that a build produced no warnings.
func AssertNoWarnings(t *testing.T, stack *config.Stack) {
	t.Helper()
	warnings := stack.Warnings()
	if len(warnings) > 0 {
		t.Errorf("expected no warnings, got %d:", len(warnings))
		for i, w := range warnings {
			t.Errorf("  [%d] %s", i, w)
		}
	}
}

// AssertResult compares the outcome of a naming check. The deciding rule
// is compared by table index; message text is checked only for the
// substring in wantMessage, when given.
//
// Example:
//
//	helper.AssertResult(t, naming.Result{Reason: naming.FormatMismatch, Index: 0}, "", table.Check(sym))
func AssertResult(t *testing.T, want naming.Result, wantMessage string, got naming.Result) {
	t.Helper()

	opts := []cmp.Option{
		cmpopts.IgnoreFields(naming.Result{}, "Rule", "Message"),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("naming result mismatch (-want +got):\n%s", diff)
	}
	if wantMessage != "" && !strings.Contains(got.Message, wantMessage) {
		t.Errorf("message %q does not contain %q", got.Message, wantMessage)
	}
}
