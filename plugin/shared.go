package plugin

import (
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// Wire-level constants shared by the host and rule set binaries. Bump
// ProtocolVersion whenever the Describe payload changes incompatibly.
const (
	ProtocolVersion  = 1
	MagicCookieKey   = "LINTSTACK_PLUGIN_MAGIC_COOKIE"
	MagicCookieValue = "lintstack-ruleset-v1"

	// PluginName is the key a rule set is dispensed under.
	PluginName = "ruleset"
	// BinaryPrefix is the file name prefix Discover looks for.
	BinaryPrefix = "lintstack-ruleset-"
)

// Handshake keeps a lintstack host from talking to unrelated go-plugin
// binaries, and keeps rule set binaries from starting their server when
// run by hand.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  ProtocolVersion,
	MagicCookieKey:   MagicCookieKey,
	MagicCookieValue: MagicCookieValue,
}

// PluginMap is what a host can dispense from a rule set binary.
var PluginMap = map[string]plugin.Plugin{
	PluginName: &RuleSetPlugin{},
}

// clientConfig is the go-plugin configuration the host uses to start the
// binary at path. Only the gRPC protocol is accepted.
func clientConfig(path string, logger hclog.Logger) *plugin.ClientConfig {
	return &plugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Logger:           logger.Named("plugin").With("path", path),
	}
}
