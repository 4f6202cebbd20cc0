package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/hclext"
	"github.com/jokarl/lintstack/naming"
	"github.com/jokarl/lintstack/ruleset"
)

var conventionSchema = &hclext.BodySchema{
	Attributes: []hclext.AttributeSchema{
		{Name: "selector", Required: true},
		{Name: "modifiers"},
		{Name: "types"},
		{Name: "format"},
		{Name: "prefix"},
		{Name: "suffix"},
		{Name: "leading_underscore"},
	},
}

var ruleSchema = &hclext.BodySchema{
	Attributes: []hclext.AttributeSchema{
		{Name: "severity", Required: true},
		{Name: "merge"},
		{Name: "options"},
	},
	Blocks: []hclext.BlockSchema{
		{Type: "convention", Body: conventionSchema},
	},
}

var ruleBlock = hclext.BlockSchema{Type: "rule", LabelNames: []string{"id"}, Body: ruleSchema}

var overrideSchema = &hclext.BodySchema{
	Attributes: []hclext.AttributeSchema{
		{Name: "name"},
		{Name: "files"},
		{Name: "ignores"},
		{Name: "languages"},
	},
	Blocks: []hclext.BlockSchema{
		{Type: "match", Body: &hclext.BodySchema{
			Attributes: []hclext.AttributeSchema{{Name: "files", Required: true}},
		}},
		ruleBlock,
	},
}

var presetSchema = &hclext.BodySchema{
	Attributes: []hclext.AttributeSchema{
		{Name: "extends"},
		{Name: "files"},
	},
	Blocks: []hclext.BlockSchema{
		ruleBlock,
		{Type: "override", Body: overrideSchema},
	},
}

var documentSchema = &hclext.BodySchema{
	Attributes: []hclext.AttributeSchema{
		{Name: "extends"},
		{Name: "plugins"},
		{Name: "ignores"},
	},
	Blocks: []hclext.BlockSchema{
		{Type: "settings", Body: &hclext.BodySchema{Mode: hclext.SchemaJustAttributesMode}},
		ruleBlock,
		{Type: "override", Body: overrideSchema},
		{Type: "preset", LabelNames: []string{"name"}, Body: presetSchema},
	},
}

// ParseHCL parses a configuration document in HCL native syntax.
func ParseHCL(src []byte, filename string) (*Document, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeBody(file.Body, diags)
}

// ParseJSON parses a configuration document in HCL JSON syntax:
//
//	{
//	  "extends": ["recommended"],
//	  "rule": {"no-console": {"severity": "warn"}},
//	  "override": [{"files": ["**/*.test.ts"], "rule": {"no-console": {"severity": "off"}}}]
//	}
func ParseJSON(src []byte, filename string) (*Document, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseJSON(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeBody(file.Body, diags)
}

func decodeBody(body hcl.Body, diags hcl.Diagnostics) (*Document, hcl.Diagnostics) {
	content, d := hclext.Content(body, documentSchema)
	diags = append(diags, d...)

	doc := &Document{}
	doc.Extends = stringListAttr(content, "extends", &diags)
	doc.Plugins = stringListAttr(content, "plugins", &diags)
	doc.Ignores = stringListAttr(content, "ignores", &diags)

	for _, block := range content.Blocks {
		switch block.Type {
		case "settings":
			if doc.Settings != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate settings block",
					Detail:   "Only one settings block is allowed.",
					Subject:  block.DefRange.Ptr(),
				})
				continue
			}
			settings, d := hclext.AttributesToMap(block.Body.Attributes)
			diags = append(diags, d...)
			doc.Settings = settings
		case "rule":
			if entry, ok := decodeRule(block, &diags); ok {
				doc.Rules = append(doc.Rules, entry)
			}
		case "override":
			doc.Overrides = append(doc.Overrides, decodeOverride(block, &diags))
		case "preset":
			doc.Presets = append(doc.Presets, decodePreset(block, &diags))
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return doc, diags
}

func decodeRule(block *hclext.Block, diags *hcl.Diagnostics) (ruleset.RuleEntry, bool) {
	entry := ruleset.RuleEntry{ID: block.Labels[0]}
	body := block.Body
	before := len(*diags)

	if attr, ok := body.Attributes["severity"]; ok {
		v, d := hclext.ExprValue(attr.Expr)
		*diags = append(*diags, d...)
		if !d.HasErrors() {
			sev, err := severityOf(v)
			if err != nil {
				*diags = append(*diags, attrError(attr, "Invalid severity", err))
			}
			entry.Severity = sev
		}
	}
	if attr, ok := body.Attributes["merge"]; ok {
		s, d := hclext.ExprString(attr.Expr)
		*diags = append(*diags, d...)
		if !d.HasErrors() {
			mode, err := ruleset.ParseMergeMode(s)
			if err != nil {
				*diags = append(*diags, attrError(attr, "Invalid merge mode", err))
			}
			entry.Merge = mode
		}
	}
	if attr, ok := body.Attributes["options"]; ok {
		opts, d := hclext.ExprOptions(attr.Expr)
		*diags = append(*diags, d...)
		entry.Options = opts
	}

	conventions := block.Body.BlocksOfType("convention")
	if len(conventions) > 0 {
		if entry.Options == nil {
			entry.Options = ruleset.Options{}
		}
		list, _ := entry.Options[naming.ConventionsKey].([]any)
		for _, c := range conventions {
			item, d := hclext.AttributesToMap(c.Body.Attributes)
			*diags = append(*diags, d...)
			if v, ok := item["leading_underscore"]; ok {
				delete(item, "leading_underscore")
				item["leadingUnderscore"] = v
			}
			list = append(list, item)
		}
		entry.Options[naming.ConventionsKey] = list
	}

	return entry, !hasErrorsSince(*diags, before)
}

func decodeOverride(block *hclext.Block, diags *hcl.Diagnostics) config.Layer {
	body := block.Body
	layer := config.Layer{Selector: &config.Selector{}}

	if attr, ok := body.Attributes["name"]; ok {
		s, d := hclext.ExprString(attr.Expr)
		*diags = append(*diags, d...)
		layer.Name = s
	}
	if files := stringListAttr(body, "files", diags); len(files) > 0 {
		layer.Selector.Files = append(layer.Selector.Files, files)
	}
	for _, match := range body.BlocksOfType("match") {
		if files := stringListAttr(match.Body, "files", diags); len(files) > 0 {
			layer.Selector.Files = append(layer.Selector.Files, files)
		}
	}
	layer.Selector.Ignores = stringListAttr(body, "ignores", diags)
	layer.Selector.Languages = stringListAttr(body, "languages", diags)

	for _, rule := range body.BlocksOfType("rule") {
		if entry, ok := decodeRule(rule, diags); ok {
			layer.Entries = append(layer.Entries, entry)
		}
	}
	return layer
}

func decodePreset(block *hclext.Block, diags *hcl.Diagnostics) config.Preset {
	body := block.Body
	preset := config.Preset{
		Name:    block.Labels[0],
		Extends: stringListAttr(body, "extends", diags),
	}

	base := config.Layer{Name: preset.Name}
	if files := stringListAttr(body, "files", diags); len(files) > 0 {
		base.Selector = &config.Selector{Files: [][]string{files}}
	}
	for _, rule := range body.BlocksOfType("rule") {
		if entry, ok := decodeRule(rule, diags); ok {
			base.Entries = append(base.Entries, entry)
		}
	}
	if len(base.Entries) > 0 {
		preset.Layers = append(preset.Layers, base)
	}

	for i, o := range body.BlocksOfType("override") {
		layer := decodeOverride(o, diags)
		if layer.Name == "" {
			layer.Name = fmt.Sprintf("%s/overrides[%d]", preset.Name, i)
		}
		preset.Layers = append(preset.Layers, layer)
	}
	return preset
}

func stringListAttr(content *hclext.BodyContent, name string, diags *hcl.Diagnostics) []string {
	attr, ok := content.Attributes[name]
	if !ok {
		return nil
	}
	list, d := hclext.ExprStringList(attr.Expr)
	*diags = append(*diags, d...)
	return list
}

func attrError(attr *hclext.Attribute, summary string, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error(),
		Subject:  attr.Expr.Range().Ptr(),
	}
}

func hasErrorsSince(diags hcl.Diagnostics, start int) bool {
	return diags[start:].HasErrors()
}
