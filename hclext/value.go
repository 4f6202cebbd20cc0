package hclext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/jokarl/lintstack/ruleset"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ValueToGo converts a cty value to plain Go values: map[string]any for
// objects and maps, []any for lists, tuples and sets, string, bool, int for
// whole numbers and float64 otherwise. Null becomes nil.
func ValueToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}

	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}

// ExprValue evaluates an expression without variables or functions and
// converts the result with ValueToGo.
func ExprValue(expr hcl.Expression) (any, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	out, err := ValueToGo(val)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return out, diags
}

// ExprOptions evaluates a rule options expression. A null value yields nil
// options; an empty object yields empty, non-nil options.
func ExprOptions(expr hcl.Expression) (ruleset.Options, hcl.Diagnostics) {
	v, diags := ExprValue(expr)
	if diags.HasErrors() || v == nil {
		return nil, diags
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid rule options",
			Detail:   fmt.Sprintf("Options must be an object, got %T.", v),
			Subject:  expr.Range().Ptr(),
		})
	}
	return ruleset.Options(m), diags
}

// ExprString evaluates an expression that must produce a string.
func ExprString(expr hcl.Expression) (string, hcl.Diagnostics) {
	v, diags := ExprValue(expr)
	if diags.HasErrors() {
		return "", diags
	}
	s, ok := v.(string)
	if !ok {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "A string is required.",
			Subject:  expr.Range().Ptr(),
		})
	}
	return s, diags
}

// ExprStringList evaluates an expression that must produce a string or a
// list of strings.
func ExprStringList(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	v, diags := ExprValue(expr)
	if diags.HasErrors() || v == nil {
		return nil, diags
	}
	switch t := v.(type) {
	case string:
		return []string{t}, diags
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid value",
					Detail:   "A list of strings is required.",
					Subject:  expr.Range().Ptr(),
				})
			}
			out = append(out, s)
		}
		return out, diags
	default:
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "A string or a list of strings is required.",
			Subject:  expr.Range().Ptr(),
		})
	}
}

// AttributesToMap evaluates extracted attributes into a map.
func AttributesToMap(attrs map[string]*Attribute) (map[string]any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		v, d := ExprValue(attr.Expr)
		diags = append(diags, d...)
		if !d.HasErrors() {
			out[name] = v
		}
	}
	return out, diags
}

// BodyToMap evaluates every attribute of a body, such as an opaque
// settings block.
func BodyToMap(body hcl.Body) (map[string]any, hcl.Diagnostics) {
	content, diags := Content(body, &BodySchema{Mode: SchemaJustAttributesMode})
	out, d := AttributesToMap(content.Attributes)
	return out, append(diags, d...)
}
