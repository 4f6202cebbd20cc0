package hclext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jokarl/lintstack/ruleset"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		t.Fatalf("ParseExpression(%q) diagnostics = %v", src, diags)
	}
	return expr
}

func TestValueToGo(t *testing.T) {
	tests := []struct {
		name string
		in   cty.Value
		want any
	}{
		{"null", cty.NullVal(cty.String), nil},
		{"string", cty.StringVal("error"), "error"},
		{"bool", cty.True, true},
		{"whole number", cty.NumberIntVal(2), 2},
		{"fraction", cty.NumberFloatVal(1.5), 1.5},
		{
			"object",
			cty.ObjectVal(map[string]cty.Value{
				"args":  cty.StringVal("all"),
				"depth": cty.NumberIntVal(3),
			}),
			map[string]any{"args": "all", "depth": 3},
		},
		{
			"tuple",
			cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)}),
			[]any{"a", 1},
		},
		{
			"set",
			cty.SetVal([]cty.Value{cty.StringVal("x")}),
			[]any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueToGo(tt.in)
			if err != nil {
				t.Fatalf("ValueToGo() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValueToGo() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := ValueToGo(cty.UnknownVal(cty.String)); err == nil {
		t.Error("ValueToGo(unknown) error = nil, want error")
	}
}

func TestExprOptions(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    ruleset.Options
		wantErr bool
	}{
		{"null", `null`, nil, false},
		{"empty", `{}`, ruleset.Options{}, false},
		{
			"nested",
			`{ paths = [{ name = "lodash", message = "Use lodash-es" }], max = 10 }`,
			ruleset.Options{
				"paths": []any{map[string]any{"name": "lodash", "message": "Use lodash-es"}},
				"max":   10,
			},
			false,
		},
		{"not an object", `["a"]`, nil, true},
		{"variable", `var.x`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := ExprOptions(parseExpr(t, tt.src))
			if diags.HasErrors() != tt.wantErr {
				t.Fatalf("ExprOptions() diagnostics = %v, wantErr %v", diags, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExprOptions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExprStringList(t *testing.T) {
	tests := []struct {
		src     string
		want    []string
		wantErr bool
	}{
		{`"**/*.ts"`, []string{"**/*.ts"}, false},
		{`["**/*.ts", "**/*.tsx"]`, []string{"**/*.ts", "**/*.tsx"}, false},
		{`[]`, []string{}, false},
		{`null`, nil, false},
		{`["a", 1]`, nil, true},
		{`{ a = "b" }`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, diags := ExprStringList(parseExpr(t, tt.src))
			if diags.HasErrors() != tt.wantErr {
				t.Fatalf("ExprStringList() diagnostics = %v, wantErr %v", diags, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExprStringList() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	if got, diags := ExprString(parseExpr(t, `"warn"`)); diags.HasErrors() || got != "warn" {
		t.Errorf("ExprString() = %q, %v; want warn", got, diags)
	}
	if _, diags := ExprString(parseExpr(t, `2`)); !diags.HasErrors() {
		t.Error("ExprString(2) reported no errors")
	}
}

func TestBodyToMap(t *testing.T) {
	got, diags := BodyToMap(parseBody(t, "react = { version = \"detect\" }\nstrict = true\n"))
	if diags.HasErrors() {
		t.Fatalf("BodyToMap() diagnostics = %v", diags)
	}
	want := map[string]any{
		"react":  map[string]any{"version": "detect"},
		"strict": true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BodyToMap() mismatch (-want +got):\n%s", diff)
	}
}
