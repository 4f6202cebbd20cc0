// Package loader reads lintstack configuration documents.
//
// The primary format is HCL:
//
//	extends = ["recommended", "plugin:@typescript-eslint/strict"]
//	plugins = ["@typescript-eslint", "unicorn"]
//	ignores = ["dist/", "**/*.min.js"]
//
//	rule "no-console" {
//	  severity = "warn"
//	}
//
//	override {
//	  files = ["**/*.test.ts"]
//	  rule "@typescript-eslint/no-explicit-any" {
//	    severity = "off"
//	  }
//	}
//
// The same structure can be written in HCL's JSON syntax. YAML and TOML
// documents use a map form close to ESLint's, with rule shorthands such as
// `no-console: warn` and `no-unused-vars: [error, {args: all}]`.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/jokarl/lintstack/config"
	"github.com/jokarl/lintstack/ruleset"
	"github.com/spf13/afero"
)

// ConfigNames are the file names FindConfig looks for, in order of
// preference.
var ConfigNames = []string{
	".lintstack.hcl",
	".lintstack.json",
	".lintstack.yaml",
	".lintstack.yml",
	".lintstack.toml",
}

// ErrNotFound is returned by FindConfig when no configuration file exists
// in the directory or any of its parents.
var ErrNotFound = errors.New("no lintstack configuration found")

// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Document is a parsed configuration file.
type Document struct {
	// Filename is the path the document was read from, if any.
	Filename string
	Extends  []string
	Plugins  []string
	Ignores  []string
	Settings map[string]any
	Rules    []ruleset.RuleEntry
	// Overrides are file-scoped layers in source order.
	Overrides []config.Layer
	// Presets are local presets, referenced from Extends by name.
	Presets []config.Preset
}

// Input returns the build input described by the document.
func (d *Document) Input() config.Input {
	return config.Input{
		Extends:   d.Extends,
		Plugins:   d.Plugins,
		Rules:     d.Rules,
		Overrides: d.Overrides,
		Ignores:   d.Ignores,
		Settings:  d.Settings,
	}
}

// Build registers the rule sets and the document's local presets and builds
// the configuration stack.
func (d *Document) Build(rulesets []ruleset.RuleSet, opts config.BuildOpts) (*config.Stack, error) {
	reg, err := config.NewRegistry(rulesets, d.Presets...)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil && d.Filename != "" {
		opts.Logger = opts.Logger.With("config", d.Filename)
	}
	return config.Build(reg, d.Input(), opts)
}

// LoadFile reads and parses a configuration file, choosing the syntax from
// its extension.
func LoadFile(fs afero.Fs, path string) (*Document, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc *Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		var diags hcl.Diagnostics
		doc, diags = ParseHCL(src, path)
		if diags.HasErrors() {
			return nil, diags
		}
	case ".json":
		var diags hcl.Diagnostics
		doc, diags = ParseJSON(src, path)
		if diags.HasErrors() {
			return nil, diags
		}
	case ".yaml", ".yml":
		doc, err = ParseYAML(src)
	case ".toml":
		doc, err = ParseTOML(src)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Filename = path
	return doc, nil
}

// FindConfig returns the path of the nearest configuration file, looking in
// dir and then in each parent directory.
func FindConfig(fs afero.Fs, dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			ok, err := afero.Exists(fs, candidate)
			if err != nil {
				return "", err
			}
			if ok {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// BuildFunc returns a function that reads the file at path and builds its
// stack, for use with config.Live.Reload.
//
// Example:
//
//	live, _ := config.NewLive(stack, config.DefaultCacheSize)
//	err := live.Reload(loader.BuildFunc(fs, path, rulesets, opts))
func BuildFunc(fs afero.Fs, path string, rulesets []ruleset.RuleSet, opts config.BuildOpts) func() (*config.Stack, error) {
	return func() (*config.Stack, error) {
		doc, err := LoadFile(fs, path)
		if err != nil {
			return nil, err
		}
		return doc.Build(rulesets, opts)
	}
}
