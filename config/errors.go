package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. Each typed error below wraps one of
// them.
var (
	ErrUnknownPreset     = errors.New("unknown preset")
	ErrCyclicPreset      = errors.New("cyclic preset")
	ErrMalformedSelector = errors.New("malformed selector")
	ErrInvalidOptions    = errors.New("invalid rule options")
)

// UnknownPresetError reports an extends entry naming a preset that is not
// registered.
type UnknownPresetError struct {
	// Name is the preset that could not be found.
	Name string
	// Layer names the layer or preset whose extends list referenced it.
	Layer string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("%s: preset %q is not registered", layerLabel(e.Layer), e.Name)
}

func (e *UnknownPresetError) Unwrap() error { return ErrUnknownPreset }

// CyclicPresetError reports a preset that extends itself, directly or
// through other presets.
type CyclicPresetError struct {
	// Chain is the expansion stack, starting and ending with the repeated
	// preset name.
	Chain []string
	// Layer names the layer whose extends list started the expansion.
	Layer string
}

func (e *CyclicPresetError) Error() string {
	return fmt.Sprintf("%s: preset cycle: %s", layerLabel(e.Layer), strings.Join(e.Chain, " -> "))
}

func (e *CyclicPresetError) Unwrap() error { return ErrCyclicPreset }

// MalformedSelectorError reports a glob pattern that failed to parse.
// Err is the *glob.PatternError returned by the glob package.
type MalformedSelectorError struct {
	Pattern string
	Layer   string
	Err     error
}

func (e *MalformedSelectorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: malformed pattern %q", layerLabel(e.Layer), e.Pattern)
	}
	return fmt.Sprintf("%s: %v", layerLabel(e.Layer), e.Err)
}

func (e *MalformedSelectorError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedSelector}
	}
	return []error{ErrMalformedSelector, e.Err}
}

// InvalidOptionsError reports an options payload rejected by the rule's
// validator.
type InvalidOptionsError struct {
	RuleID string
	Layer  string
	Err    error
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("%s: rule %q: %v", layerLabel(e.Layer), e.RuleID, e.Err)
}

func (e *InvalidOptionsError) Unwrap() []error {
	return []error{ErrInvalidOptions, e.Err}
}

func layerLabel(name string) string {
	if name == "" {
		return "layer <unnamed>"
	}
	return fmt.Sprintf("layer %q", name)
}
