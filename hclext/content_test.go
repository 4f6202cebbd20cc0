package hclext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

func parseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclparse.NewParser().ParseHCL([]byte(src), "test.hcl")
	if diags.HasErrors() {
		t.Fatalf("ParseHCL() diagnostics = %v", diags)
	}
	return file.Body
}

var ruleSchema = &BodySchema{
	Attributes: []AttributeSchema{{Name: "extends"}},
	Blocks: []BlockSchema{
		{
			Type:       "rule",
			LabelNames: []string{"id"},
			Body: &BodySchema{
				Attributes: []AttributeSchema{{Name: "severity", Required: true}, {Name: "options"}},
				Blocks: []BlockSchema{
					{Type: "convention", Body: &BodySchema{Attributes: []AttributeSchema{{Name: "selector"}}}},
				},
			},
		},
		{Type: "settings", Body: &BodySchema{Mode: SchemaJustAttributesMode}},
		{Type: "opaque"},
	},
}

func TestContent(t *testing.T) {
	body := parseBody(t, `
extends = ["recommended"]

rule "no-console" {
  severity = "warn"
}

rule "naming-convention" {
  severity = "error"
  convention {
    selector = "function"
  }
  convention {
    selector = "variable"
  }
}

settings {
  react = "detect"
  depth = 2
}

opaque {
  anything = true
}
`)

	content, diags := Content(body, ruleSchema)
	if diags.HasErrors() {
		t.Fatalf("Content() diagnostics = %v", diags)
	}

	if _, ok := content.Attributes["extends"]; !ok {
		t.Error("Content() did not extract the extends attribute")
	}

	type summary struct {
		Type        string
		Labels      []string
		Attrs       []string
		NestedTypes []string
	}
	var got []summary
	for _, b := range content.Blocks {
		s := summary{Type: b.Type, Labels: b.Labels}
		if b.Body != nil && b.Type == "rule" {
			for name := range b.Body.Attributes {
				s.Attrs = append(s.Attrs, name)
			}
			for _, nested := range b.Body.Blocks {
				s.NestedTypes = append(s.NestedTypes, nested.Type)
			}
		}
		got = append(got, s)
	}
	want := []summary{
		{Type: "rule", Labels: []string{"no-console"}, Attrs: []string{"severity"}},
		{Type: "rule", Labels: []string{"naming-convention"}, Attrs: []string{"severity"}, NestedTypes: []string{"convention", "convention"}},
		{Type: "settings"},
		{Type: "opaque"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Content() mismatch (-want +got):\n%s", diff)
	}

	settings := content.BlocksOfType("settings")
	if len(settings) != 1 || len(settings[0].Body.Attributes) != 2 {
		t.Errorf("settings block = %+v, want both attributes extracted", settings)
	}
	if opaque := content.BlocksOfType("opaque"); len(opaque) != 1 || opaque[0].Body != nil {
		t.Errorf("opaque block body = %+v, want nil", opaque)
	}
}

func TestContent_Diagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown attribute", `unknown = 1`},
		{"unknown block", `other {}`},
		{"missing required", `rule "x" {}`},
		{"nested unknown", "rule \"x\" {\n  severity = \"off\"\n  extra = 1\n}"},
		{"block in settings", "settings {\n  inner {}\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Content(parseBody(t, tt.src), ruleSchema)
			if !diags.HasErrors() {
				t.Error("Content() reported no errors")
			}
		})
	}
}

func TestContent_NilSchema(t *testing.T) {
	content, diags := Content(parseBody(t, `a = 1`), nil)
	if diags.HasErrors() || len(content.Attributes) != 0 || len(content.Blocks) != 0 {
		t.Errorf("Content(nil schema) = %+v, %v; want empty content", content, diags)
	}
}

func TestToHCLBodySchema(t *testing.T) {
	got := ToHCLBodySchema(ruleSchema)
	want := &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "extends"}},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "rule", LabelNames: []string{"id"}},
			{Type: "settings"},
			{Type: "opaque"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToHCLBodySchema() mismatch (-want +got):\n%s", diff)
	}
	if ToHCLBodySchema(nil) != nil {
		t.Error("ToHCLBodySchema(nil) != nil")
	}
}
