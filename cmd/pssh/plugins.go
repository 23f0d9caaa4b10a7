// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewPluginsCmd creates the plugins subcommand.
func NewPluginsCmd(opts *rootOptions, deps Deps) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Show which plugins loaded",
		Long: `Load plugins the same way connect does and report each one's status.
Plugins that failed to load are listed with the reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd, opts, deps, true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if err := a.writePluginTable(out); err != nil {
				return err
			}
			if showMetrics {
				fmt.Fprintln(out)
				return writeMetrics(out, a.registry)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "also print plugin metrics in Prometheus text format")
	return cmd
}

func (a *app) writePluginTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSTATUS\tPATH")
	for i, p := range a.loader.Plugins() {
		fmt.Fprintf(tw, "%d\t%s\tloaded\t%s\n", i, p.Name, p.Path)
	}
	for _, f := range a.loader.Failures() {
		fmt.Fprintf(tw, "-\t-\tfailed: %v\t%s\n", f.Err, f.Path)
	}
	return tw.Flush()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return oops.In("pssh").Wrapf(err, "gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return oops.In("pssh").Wrapf(err, "encode metrics")
		}
	}
	return nil
}
