// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

// NewRootCmd creates the root command for the pssh CLI.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(Deps{})
}

// NewRootCmdWithDeps creates the root command with injected dependencies.
func NewRootCmdWithDeps(deps Deps) *cobra.Command {
	deps = deps.withDefaults()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pssh",
		Short: "pssh - pick an SSH host and connect",
		Long: `pssh lists the hosts in your ssh_config and connects to the one you pick.

Native plugins loaded at startup may add, remove, or rewrite hosts, and may
replace the command run for a selected host.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "settings file path (default $XDG_CONFIG_HOME/pssh/config.yaml)")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-level", "", "log level: debug, info, warn, or error")
	flags.String("ssh-config", "", "ssh_config file to read hosts from (default ~/.ssh/config)")
	flags.String("plugin-dir", "", "directory scanned for plugin libraries")
	flags.StringArray("plugin", nil, "plugin library to load, after configured ones (repeatable)")

	cmd.AddCommand(NewListCmd(opts, deps))
	cmd.AddCommand(NewConnectCmd(opts, deps))
	cmd.AddCommand(NewCommandCmd(opts, deps))
	cmd.AddCommand(NewOpenCmd(opts, deps))
	cmd.AddCommand(NewPluginsCmd(opts, deps))

	return cmd
}
