// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pssh/pssh/internal/plugin"
)

// NewConnectCmd creates the connect subcommand.
func NewConnectCmd(opts *rootOptions, deps Deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "connect <host>",
		Short: "Connect to a host",
		Long: `Connect to a host by name, list index, or ssh_config pattern.

Every plugin's on_item_select is asked for a command; the last plugin to
answer wins. With no answer the command is "ssh <name>". The command runs
through the configured launcher_cmd.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, opts, deps, true)
			if err != nil {
				return err
			}
			defer a.Close()

			host, res, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			line := res.Command(host)
			if res.Overridden {
				a.logger.Info("plugin override", "host", host.Name, "plugin", res.Source)
			}

			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			}
			return a.runner().Run(cmd.Context(), line)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the command instead of running it")
	return cmd
}

// NewCommandCmd creates the command subcommand.
func NewCommandCmd(opts *rootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "command <host>",
		Short: "Print the command connect would run",
		Long: `Print the command line connect would hand to the launcher for a host,
after plugins have had their say. Nothing is run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, opts, deps, true)
			if err != nil {
				return err
			}
			defer a.Close()

			host, res, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Command(host))
			return nil
		},
	}
}

// NewOpenCmd creates the open subcommand.
func NewOpenCmd(opts *rootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "open <address>",
		Short: "Connect to an address that is not in ssh_config",
		Long: `Run "ssh <address>" through the launcher. Plugins are not loaded or
consulted, so the address reaches ssh exactly as typed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, opts, deps, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.runner().Run(cmd.Context(), plugin.DefaultCommand(args[0]))
		},
	}
}
