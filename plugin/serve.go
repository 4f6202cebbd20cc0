// Package plugin provides the entry point for lintstack rule set plugins.
//
// Plugins use this package to publish their RuleSet to the lintstack host.
// The Serve function is called from main() and answers the host's Describe
// call over gRPC using HashiCorp's go-plugin library.
//
// Example plugin main.go:
//
//	package main
//
//	import (
//	    "github.com/jokarl/lintstack/plugin"
//	    "github.com/jokarl/lintstack/ruleset"
//	)
//
//	func main() {
//	    plugin.Serve(&plugin.ServeOpts{
//	        RuleSet: &ruleset.BuiltinRuleSet{
//	            Name:    "unicorn",
//	            Version: "56.0.0",
//	            Rules:   rules.Rules,
//	        },
//	    })
//	}
//
// The binary must be named with the "lintstack-ruleset-" prefix to be
// found by Discover.
package plugin

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jokarl/lintstack/ruleset"
)

// ServeOpts contains options for serving the plugin.
type ServeOpts struct {
	// RuleSet is the plugin's rule set implementation.
	RuleSet ruleset.RuleSet
	// Logger receives go-plugin's logs. Defaults to a WARN logger on stderr.
	Logger hclog.Logger
}

// Serve starts the plugin server.
//
// The function blocks until the host disconnects. When invoked directly
// (outside of lintstack), the plugin prints a summary of its rule set and
// returns.
func Serve(opts *ServeOpts) {
	if opts == nil || opts.RuleSet == nil {
		return
	}

	if os.Getenv(MagicCookieKey) != MagicCookieValue {
		printDirectInvocationMessage(os.Stderr, opts.RuleSet)
		return
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "plugin",
			Level:  hclog.Warn,
			Output: os.Stderr,
		})
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &RuleSetPlugin{Impl: opts.RuleSet},
		},
		GRPCServer: plugin.DefaultGRPCServer,
		Logger:     logger,
	})
}

// printDirectInvocationMessage prints a helpful message when the plugin
// is invoked directly instead of via lintstack.
func printDirectInvocationMessage(w io.Writer, rs ruleset.RuleSet) {
	fmt.Fprintf(w, "This is a lintstack rule set plugin.\n\n")
	fmt.Fprintf(w, "Namespace: %s\n", rs.RuleSetName())
	fmt.Fprintf(w, "Version: %s\n", rs.RuleSetVersion())
	fmt.Fprintf(w, "Rules:\n")
	for _, name := range sortedRuleNames(rs) {
		fmt.Fprintf(w, "  - %s\n", ruleset.QualifiedID(rs.RuleSetName(), name))
	}
	if presets := rs.Presets(); len(presets) > 0 {
		fmt.Fprintf(w, "Presets:\n")
		for _, def := range presets {
			fmt.Fprintf(w, "  - %s\n", ruleset.PresetName(rs.RuleSetName(), def.Name))
		}
	}
	fmt.Fprintf(w, "\nTo use this plugin, place it in the lintstack plugin directory.\n")
}
