// Package hclext extracts configuration content from HCL bodies.
//
// Schemas describe which attributes and blocks a body may contain, and
// Content walks a body with such a schema, recursing into nested blocks
// that declare a body schema of their own. The value helpers convert
// evaluated expressions into the plain Go values used for rule options and
// settings.
//
// Key types:
//   - BodySchema: Defines expected attributes and blocks to extract
//   - BodyContent: Contains extracted attributes and blocks
//   - Attribute: An extracted HCL attribute with expression and range
//   - Block: An extracted HCL block with labels and nested content
package hclext

import (
	"github.com/hashicorp/hcl/v2"
)

// SchemaMode specifies how schema matching behaves.
type SchemaMode int

const (
	// SchemaDefaultMode requires explicitly declared attributes and blocks.
	SchemaDefaultMode SchemaMode = iota
	// SchemaJustAttributesMode extracts all attributes without explicit declaration.
	SchemaJustAttributesMode
)

// BodySchema represents the expected structure of an HCL body.
//
// Example:
//
//	schema := &hclext.BodySchema{
//	    Attributes: []hclext.AttributeSchema{
//	        {Name: "severity", Required: true},
//	        {Name: "options"},
//	    },
//	    Blocks: []hclext.BlockSchema{
//	        {Type: "convention", Body: conventionSchema},
//	    },
//	}
type BodySchema struct {
	Attributes []AttributeSchema
	Blocks     []BlockSchema
	Mode       SchemaMode
}

// AttributeSchema represents an expected HCL attribute.
type AttributeSchema struct {
	Name     string
	Required bool
}

// BlockSchema represents an expected HCL block.
type BlockSchema struct {
	// Type is the block type to match (e.g., "rule", "override").
	Type string
	// LabelNames are the names for block labels (e.g., ["id"] for rules).
	LabelNames []string
	// Body is the schema for the block's body. Without it the block body
	// is left unextracted.
	Body *BodySchema
}

// BodyContent represents extracted content from an HCL body.
type BodyContent struct {
	Attributes map[string]*Attribute
	Blocks     []*Block
}

// Attribute represents an extracted HCL attribute.
type Attribute struct {
	Name      string
	Expr      hcl.Expression
	Range     hcl.Range
	NameRange hcl.Range
}

// Block represents an extracted HCL block.
type Block struct {
	Type        string
	Labels      []string
	Body        *BodyContent
	DefRange    hcl.Range
	TypeRange   hcl.Range
	LabelRanges []hcl.Range
}

// BlocksOfType returns the blocks of one type in source order.
func (c *BodyContent) BlocksOfType(typ string) []*Block {
	if c == nil {
		return nil
	}
	var out []*Block
	for _, b := range c.Blocks {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

// ToHCLBodySchema converts a BodySchema to an hcl.BodySchema.
func ToHCLBodySchema(schema *BodySchema) *hcl.BodySchema {
	if schema == nil {
		return nil
	}

	hclSchema := &hcl.BodySchema{
		Attributes: make([]hcl.AttributeSchema, len(schema.Attributes)),
		Blocks:     make([]hcl.BlockHeaderSchema, len(schema.Blocks)),
	}
	for i, attr := range schema.Attributes {
		hclSchema.Attributes[i] = hcl.AttributeSchema{Name: attr.Name, Required: attr.Required}
	}
	for i, block := range schema.Blocks {
		hclSchema.Blocks[i] = hcl.BlockHeaderSchema{Type: block.Type, LabelNames: block.LabelNames}
	}
	return hclSchema
}

// Content extracts a body according to the schema. Attributes or blocks
// the schema does not declare are reported as error diagnostics. In
// SchemaJustAttributesMode every attribute is extracted and blocks are
// errors.
//
// Content returns whatever it could extract together with the
// diagnostics, so callers can report every problem of a file at once.
func Content(body hcl.Body, schema *BodySchema) (*BodyContent, hcl.Diagnostics) {
	out := &BodyContent{Attributes: map[string]*Attribute{}}
	if body == nil || schema == nil {
		return out, nil
	}

	if schema.Mode == SchemaJustAttributesMode {
		attrs, diags := body.JustAttributes()
		for name, attr := range attrs {
			out.Attributes[name] = fromHCLAttribute(attr)
		}
		return out, diags
	}

	content, diags := body.Content(ToHCLBodySchema(schema))
	if content == nil {
		return out, diags
	}
	for name, attr := range content.Attributes {
		out.Attributes[name] = fromHCLAttribute(attr)
	}
	for _, block := range content.Blocks {
		b := fromHCLBlock(block)
		if bs := schema.block(block.Type); bs != nil && bs.Body != nil {
			nested, d := Content(block.Body, bs.Body)
			diags = append(diags, d...)
			b.Body = nested
		}
		out.Blocks = append(out.Blocks, b)
	}
	return out, diags
}

func (s *BodySchema) block(typ string) *BlockSchema {
	for i := range s.Blocks {
		if s.Blocks[i].Type == typ {
			return &s.Blocks[i]
		}
	}
	return nil
}

func fromHCLAttribute(attr *hcl.Attribute) *Attribute {
	return &Attribute{
		Name:      attr.Name,
		Expr:      attr.Expr,
		Range:     attr.Range,
		NameRange: attr.NameRange,
	}
}

func fromHCLBlock(block *hcl.Block) *Block {
	return &Block{
		Type:        block.Type,
		Labels:      block.Labels,
		DefRange:    block.DefRange,
		TypeRange:   block.TypeRange,
		LabelRanges: block.LabelRanges,
	}
}
