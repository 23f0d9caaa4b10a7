// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pssh/pssh/internal/bridge"
	"github.com/pssh/pssh/internal/config"
	"github.com/pssh/pssh/internal/hostapi"
	"github.com/pssh/pssh/internal/logging"
	"github.com/pssh/pssh/internal/plugin"
	"github.com/pssh/pssh/internal/sshconfig"
)

// app is everything a subcommand needs once settings, hosts, and plugins
// are loaded.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	registry *prometheus.Registry
	hosts    *sshconfig.Config
	loader   PluginLoader
	runtime  *plugin.Runtime
	deps     Deps
	cmd      *cobra.Command
	cleanup  []func()
}

// bootstrap loads settings and hosts. When withPlugins is set it also loads
// plugins and lets them inspect the hosts.
func bootstrap(cmd *cobra.Command, opts *rootOptions, deps Deps, withPlugins bool) (*app, error) {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup("pssh", version, settings.LogFormat, level, cmd.ErrOrStderr())

	a := &app{
		settings: settings,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		deps:     deps,
		cmd:      cmd,
	}

	if a.hosts, err = a.loadHosts(); err != nil {
		return nil, err
	}

	api := hostapi.New(hostapi.WithLogger(logger))
	a.cleanup = append(a.cleanup, bridge.Install(api, logger))

	metrics := plugin.NewMetrics(a.registry)
	a.loader = deps.PluginLoaderFactory(api, logger, metrics)
	a.cleanup = append(a.cleanup, func() {
		if err := a.loader.Close(); err != nil {
			logging.LogWarn(logger, "failed to unload plugins", err)
		}
	})

	if withPlugins {
		if err := a.loadPlugins(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.runtime = plugin.NewRuntime(api, a.loader.Plugins(),
		plugin.WithRuntimeLogger(logger),
		plugin.WithRuntimeMetrics(metrics))

	if withPlugins {
		a.runtime.Inspect(cmd.Context(), a.hosts)
	}
	return a, nil
}

func loadSettings(cmd *cobra.Command, opts *rootOptions) (*config.Settings, error) {
	path := opts.configFile
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(path, explicit, cmd.Flags())
}

// loadHosts reads the ssh_config. A missing file at the default location is
// an empty host list.
func (a *app) loadHosts() (*sshconfig.Config, error) {
	path := a.settings.SSHConfig
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = sshconfig.DefaultPath(); err != nil {
			return nil, err
		}
	}

	hosts, err := a.deps.SSHConfigLoader(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			a.logger.Info("no ssh config, starting with no hosts", "path", path)
			return &sshconfig.Config{GlobalOptions: map[string]string{}}, nil
		}
		return nil, err
	}
	return hosts, nil
}

// loadPlugins loads configured plugins, then discovered ones. Failures are
// reported on stderr and never stop the launcher.
func (a *app) loadPlugins() error {
	discovered, err := plugin.Discover(a.settings.PluginDir)
	if err != nil {
		logging.LogWarn(a.logger, "plugin discovery failed", err)
	}
	paths := dedupe(append(append([]string(nil), a.settings.Plugins...), discovered...))
	if len(paths) == 0 {
		return nil
	}

	if !bridge.Enabled() {
		a.logger.Warn("built without cgo; plugins cannot call back into pssh")
	}

	if err := a.loader.LoadAll(a.cmd.Context(), paths); err != nil {
		return oops.In("pssh").Wrapf(err, "load plugins")
	}
	for _, f := range a.loader.Failures() {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "pssh: plugin %s not loaded: %v\n", f.Path, f.Err)
	}
	return nil
}

// Close releases plugins and the bridge, in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// resolve looks up query and asks plugins for its command line.
func (a *app) resolve(query string) (*sshconfig.Host, plugin.Resolution, error) {
	host, _, err := a.hosts.Lookup(query)
	if err != nil {
		return nil, plugin.Resolution{}, oops.In("pssh").Code("HOST_NOT_FOUND").With("host", query).Wrap(err)
	}
	return host, a.runtime.Select(a.cmd.Context(), host), nil
}

func (a *app) runner() Runner {
	return a.deps.RunnerFactory(a.settings.LauncherCmd, Stdio{
		In:  a.cmd.InOrStdin(),
		Out: a.cmd.OutOrStdout(),
		Err: a.cmd.ErrOrStderr(),
	}, a.logger)
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
