package plugin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-plugin"
	"github.com/spf13/afero"

	"github.com/jokarl/lintstack/ruleset"
)

// ErrIncompatible is returned when a plugin's version constraint does not
// admit the host version.
var ErrIncompatible = errors.New("incompatible plugin")

// DefaultTimeout bounds the Describe call of a plugin.
const DefaultTimeout = 30 * time.Second

// LoadOpts configures Load.
type LoadOpts struct {
	// HostVersion is checked against the plugin's version constraint.
	// When empty, the constraint is not checked.
	HostVersion string
	// Logger receives go-plugin's logs. Defaults to a null logger.
	Logger hclog.Logger
	// Timeout bounds the Describe call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Load starts the plugin binary at path, fetches its rule set and stops the
// process. The returned rule set is a static snapshot.
func Load(path string, opts LoadOpts) (ruleset.RuleSet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := plugin.NewClient(clientConfig(path, logger))
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("failed to start plugin %s: %w", path, err)
	}
	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		return nil, fmt.Errorf("failed to dispense plugin %s: %w", path, err)
	}
	rsClient, ok := raw.(*GRPCRuleSetClient)
	if !ok {
		return nil, fmt.Errorf("plugin %s: unexpected client type %T", path, raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	rs, err := rsClient.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to describe plugin %s: %w", path, err)
	}

	if err := CheckVersion(rs.VersionConstraint(), opts.HostVersion); err != nil {
		return nil, fmt.Errorf("plugin %q: %w", rs.RuleSetName(), err)
	}

	logger.Debug("loaded plugin", "path", path, "namespace", rs.RuleSetName(),
		"version", rs.RuleSetVersion(), "rules", len(rs.Rules))
	return rs, nil
}

// LoadDir loads every plugin Discover finds in dir. Plugins that fail to
// load are reported together; the ones that loaded are still returned.
func LoadDir(fs afero.Fs, dir string, opts LoadOpts) ([]ruleset.RuleSet, error) {
	paths, err := Discover(fs, dir)
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	var out []ruleset.RuleSet
	for _, path := range paths {
		rs, err := Load(path, opts)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, rs)
	}
	return out, errs.ErrorOrNil()
}

// CheckVersion reports whether host satisfies a plugin's version
// constraint. An empty host version skips the check.
func CheckVersion(constraint, host string) error {
	if host == "" || constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(host)
	if err != nil {
		return fmt.Errorf("invalid host version %q: %w", host, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: requires lintstack %s, running %s", ErrIncompatible, constraint, host)
	}
	return nil
}

// Discover returns the plugin binaries in dir, sorted by name. Plugin
// binaries are regular files whose name starts with BinaryPrefix. A missing
// directory yields no plugins.
func Discover(fs afero.Fs, dir string) ([]string, error) {
	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin directory %s: %w", dir, err)
	}
	var paths []string
	for _, info := range infos {
		if !info.Mode().IsRegular() || !strings.HasPrefix(info.Name(), BinaryPrefix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, info.Name()))
	}
	return paths, nil
}
