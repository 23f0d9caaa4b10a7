// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/pssh/pssh/internal/hostapi"
	"github.com/pssh/pssh/internal/launcher"
	"github.com/pssh/pssh/internal/plugin"
	"github.com/pssh/pssh/internal/sshconfig"
)

// PluginLoader loads plugins and owns them until Close.
type PluginLoader interface {
	LoadAll(ctx context.Context, paths []string) error
	Plugins() []*plugin.Plugin
	Failures() []*plugin.LoadError
	Close() error
}

// Runner runs a resolved command line.
type Runner interface {
	Run(ctx context.Context, line string) error
}

// Stdio is the set of streams a launched command inherits.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// PluginLoaderFactory creates the plugin loader. Native plugins reach
	// the host API through the bridge installed by bootstrap, so the default
	// loader ignores api; loaders of in-process plugins may use it directly.
	// Default: plugin.NewManager
	PluginLoaderFactory func(api *hostapi.API, logger *slog.Logger, metrics *plugin.Metrics) PluginLoader

	// SSHConfigLoader reads the ssh_config file.
	// Default: sshconfig.Load
	SSHConfigLoader func(path string) (*sshconfig.Config, error)

	// RunnerFactory creates the command runner for a launcher prefix.
	// Default: launcher.New
	RunnerFactory func(prefix []string, stdio Stdio, logger *slog.Logger) Runner
}

func (d Deps) withDefaults() Deps {
	if d.PluginLoaderFactory == nil {
		d.PluginLoaderFactory = func(_ *hostapi.API, logger *slog.Logger, metrics *plugin.Metrics) PluginLoader {
			return plugin.NewManager(plugin.WithLogger(logger), plugin.WithMetrics(metrics))
		}
	}
	if d.SSHConfigLoader == nil {
		d.SSHConfigLoader = sshconfig.Load
	}
	if d.RunnerFactory == nil {
		d.RunnerFactory = func(prefix []string, stdio Stdio, logger *slog.Logger) Runner {
			return launcher.New(prefix, launcher.WithIO(stdio.In, stdio.Out, stdio.Err), launcher.WithLogger(logger))
		}
	}
	return d
}
