package config

// Expand returns the layers of a preset with everything it extends expanded
// in front of them.
//
// Expansion is depth-first and keeps the declared order of every extends
// list, so a preset listed later overrides one listed earlier for the same
// rule. The returned layers are copies; expanding the same name twice
// yields identical results.
//
// Errors are *UnknownPresetError and *CyclicPresetError.
func Expand(name string, reg *Registry) ([]Layer, error) {
	return expandFrom(name, "", reg)
}

// expandFrom expands name on behalf of the layer origin, which is used in
// error messages.
func expandFrom(name, origin string, reg *Registry) ([]Layer, error) {
	var out []Layer
	if err := expandInto(&out, name, origin, origin, reg, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func expandInto(out *[]Layer, name, parent, origin string, reg *Registry, stack []string) error {
	for _, seen := range stack {
		if seen == name {
			chain := make([]string, 0, len(stack)+1)
			chain = append(chain, stack...)
			return &CyclicPresetError{Chain: append(chain, name), Layer: origin}
		}
	}

	p, ok := reg.Preset(name)
	if !ok {
		return &UnknownPresetError{Name: name, Layer: parent}
	}

	stack = append(stack, name)
	for _, ext := range p.Extends {
		if err := expandInto(out, ext, name, origin, reg, stack); err != nil {
			return err
		}
	}
	for _, l := range p.Layers {
		c := l.Clone()
		if c.Name == "" {
			c.Name = name
		}
		*out = append(*out, c)
	}
	return nil
}
