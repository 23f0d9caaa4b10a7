// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/hostapi"
	"github.com/pssh/pssh/internal/logging"
	"github.com/pssh/pssh/internal/marshal"
	"github.com/pssh/pssh/internal/sshconfig"
)

var tracer = otel.Tracer("pssh/plugin")

// DefaultCommand is the command run for a host no plugin overrides.
func DefaultCommand(name string) string {
	return "ssh " + name
}

// Resolution is the outcome of a selection call.
type Resolution struct {
	// Overridden is true when some plugin returned a list.
	Overridden bool
	// Args is the winning plugin's list, decoded.
	Args []string
	// Source names the plugin that produced Args.
	Source string
}

// Command returns the command line to launch for host.
func (r Resolution) Command(host *sshconfig.Host) string {
	if r.Overridden {
		return strings.Join(r.Args, " ")
	}
	return DefaultCommand(host.Name)
}

// Runtime invokes loaded plugins. Calls are synchronous and run on the
// caller's goroutine.
type Runtime struct {
	api     *hostapi.API
	plugins []*Plugin
	logger  *slog.Logger
	metrics *Metrics
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeLogger sets the runtime's logger.
func WithRuntimeLogger(l *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithRuntimeMetrics records calls in metrics.
func WithRuntimeMetrics(m *Metrics) RuntimeOption {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// NewRuntime creates a runtime calling plugins in the given order.
// Panics if api is nil.
func NewRuntime(api *hostapi.API, plugins []*Plugin, opts ...RuntimeOption) *Runtime {
	if api == nil {
		panic("plugin: api cannot be nil")
	}
	r := &Runtime{
		api:     api,
		plugins: plugins,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Inspect lets every plugin, in load order, read and mutate cfg. cfg is
// reachable by plugins only for the duration of the call.
func (r *Runtime) Inspect(ctx context.Context, cfg *sshconfig.Config) {
	ctx, span := tracer.Start(ctx, "plugin.inspect",
		trace.WithAttributes(
			attribute.Int("plugin.count", len(r.plugins)),
			attribute.Int("hosts.before", len(cfg.Hosts)),
		),
	)
	defer span.End()

	h, release := r.api.Attach(cfg)
	defer release()

	for _, p := range r.plugins {
		r.logger.DebugContext(ctx, "calling plugin",
			"plugin", p.Name,
			"entrypoint", abi.SymbolInspectConfig,
			"call_id", ulid.Make().String())
		p.entry.InspectConfig(h)
		r.metrics.recordCall(p.Name, abi.SymbolInspectConfig)
	}

	span.SetAttributes(attribute.Int("hosts.after", len(cfg.Hosts)))
}

// Select asks every plugin, in load order, for a command override for host.
// The last plugin to return a list wins; a null return leaves any earlier
// override in place. host must not be mutated during the call.
func (r *Runtime) Select(ctx context.Context, host *sshconfig.Host) Resolution {
	ctx, span := tracer.Start(ctx, "plugin.select",
		trace.WithAttributes(
			attribute.String("host.name", host.Name),
			attribute.Int("plugin.count", len(r.plugins)),
		),
	)
	defer span.End()

	rec, release := r.api.Borrow(host)
	defer release()

	var res Resolution
	for _, p := range r.plugins {
		callID := ulid.Make().String()
		r.logger.DebugContext(ctx, "calling plugin",
			"plugin", p.Name,
			"entrypoint", abi.SymbolOnItemSelect,
			"call_id", callID)

		l := p.entry.OnItemSelect(rec)
		r.metrics.recordCall(p.Name, abi.SymbolOnItemSelect)
		if l == abi.NullList {
			r.metrics.recordSelect(p.Name, outcomeNone)
			continue
		}

		args, err := r.takeArgs(l)
		if err != nil {
			logging.LogWarn(r.logger.With("plugin", p.Name, "call_id", callID),
				"ignoring plugin override", err)
			r.metrics.recordSelect(p.Name, outcomeInvalid)
			continue
		}

		res = Resolution{Overridden: true, Args: args, Source: p.Name}
		r.metrics.recordSelect(p.Name, outcomeOverride)
	}

	span.SetAttributes(
		attribute.Bool("select.overridden", res.Overridden),
		attribute.String("select.source", res.Source),
	)
	return res
}

func (r *Runtime) takeArgs(l abi.List) ([]string, error) {
	bufs, err := r.api.TakeList(l)
	if err != nil {
		return nil, err
	}
	return marshal.Strings(bufs)
}
