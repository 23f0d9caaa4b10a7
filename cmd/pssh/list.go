// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pssh/pssh/internal/sshconfig"
)

// NewListCmd creates the list subcommand.
func NewListCmd(opts *rootOptions, deps Deps) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hosts after plugins have inspected them",
		Long: `List the hosts from your ssh_config as they stand after every plugin's
inspect_config has run. Indices are accepted by connect and command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd, opts, deps, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return writeHosts(cmd.OutOrStdout(), output, a.hosts.Hosts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, or yaml")
	return cmd
}

type hostRow struct {
	Index          int `yaml:"index"`
	sshconfig.Host `yaml:",inline"`
}

func writeHosts(w io.Writer, format string, hosts []sshconfig.Host) error {
	switch format {
	case "text":
		return writeHostTable(w, hosts)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hosts)
	case "yaml":
		rows := make([]hostRow, len(hosts))
		for i, h := range hosts {
			rows[i] = hostRow{Index: i, Host: h}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return oops.In("pssh").Wrapf(err, "encode hosts")
		}
		return enc.Close()
	default:
		return oops.In("pssh").Code("INVALID_OUTPUT").With("output", format).
			Errorf("unknown output format %q (want text, json, or yaml)", format)
	}
}

func writeHostTable(w io.Writer, hosts []sshconfig.Host) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tHOSTNAME\tUSER\tOPTIONS")
	for i, h := range hosts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, h.Name, deref(h.HostName), deref(h.User), formatOptions(h.Other))
	}
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatOptions(opts map[string]string) string {
	if len(opts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(opts))
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		parts = append(parts, k+"="+opts[k])
	}
	return strings.Join(parts, " ")
}
