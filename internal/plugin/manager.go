// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/logging"
)

// Error codes recorded on LoadError.
const (
	CodeOpenFailed    = "PLUGIN_OPEN_FAILED"
	CodeSymbolMissing = "PLUGIN_SYMBOL_MISSING"
)

// ErrManagerClosed is returned when loading after Close.
var ErrManagerClosed = errors.New("plugin manager is closed")

// LoadError records a plugin that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "load plugin " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Manager loads plugins and owns their libraries until Close.
type Manager struct {
	open     Opener
	bind     Binder
	logger   *slog.Logger
	metrics  *Metrics
	plugins  []*Plugin
	failures []*LoadError
	mu       sync.Mutex
	closed   bool
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithOpener replaces the native library opener (for testing).
func WithOpener(open Opener) ManagerOption {
	return func(m *Manager) {
		m.open = open
	}
}

// WithBinder replaces the native entry point binder (for testing).
func WithBinder(bind Binder) ManagerOption {
	return func(m *Manager) {
		m.bind = bind
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMetrics records load outcomes in metrics.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a plugin manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		open:   openNative,
		bind:   bindNative,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadAll loads every path in order. A path that fails to open or lacks a
// required export is recorded in Failures and skipped; it never stops the
// remaining paths from loading.
func (m *Manager) LoadAll(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return oops.In("plugin").Wrap(err)
		}

		p, err := m.load(path)
		if err != nil {
			le := &LoadError{Path: path, Err: err}
			m.failures = append(m.failures, le)
			m.metrics.recordLoad(resultFailed)
			logging.LogWarn(m.logger, "skipping plugin", le)
			continue
		}

		m.plugins = append(m.plugins, p)
		m.metrics.recordLoad(resultLoaded)
		m.logger.Info("loaded plugin", "plugin", p.Name, "path", p.Path)
	}

	return nil
}

func (m *Manager) load(path string) (*Plugin, error) {
	lib, err := m.open(path)
	if err != nil {
		return nil, oops.In("plugin").Code(CodeOpenFailed).With("path", path).Wrap(err)
	}

	syms := make([]uintptr, len(abi.RequiredPluginSymbols))
	for i, name := range abi.RequiredPluginSymbols {
		sym, err := lib.Lookup(name)
		if err == nil && sym == 0 {
			err = oops.Errorf("symbol %s resolved to null", name)
		}
		if err != nil {
			if cerr := lib.Close(); cerr != nil {
				m.logger.Warn("failed to unload rejected plugin", "path", path, "error", cerr)
			}
			return nil, oops.In("plugin").Code(CodeSymbolMissing).With("path", path).With("symbol", name).Wrap(err)
		}
		syms[i] = sym
	}

	return &Plugin{
		Name:  pluginName(path),
		Path:  path,
		entry: m.bind(syms[0], syms[1]),
		lib:   lib,
	}, nil
}

// Plugins returns the loaded plugins in load order.
func (m *Manager) Plugins() []*Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Plugin(nil), m.plugins...)
}

// Failures returns the paths that failed to load, in attempt order.
func (m *Manager) Failures() []*LoadError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*LoadError(nil), m.failures...)
}

// Close unloads every plugin. Unload errors are joined; the manager is
// closed regardless.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	for i := len(m.plugins) - 1; i >= 0; i-- {
		if m.plugins[i].lib == nil {
			continue
		}
		if err := m.plugins[i].lib.Close(); err != nil {
			errs = append(errs, oops.In("plugin").With("plugin", m.plugins[i].Name).Wrap(err))
		}
	}
	m.plugins = nil
	return errors.Join(errs...)
}

// pluginName strips the directory, a leading "lib" and the extension from
// path, so libadd_entry.so becomes add_entry.
func pluginName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if trimmed := strings.TrimPrefix(base, "lib"); trimmed != "" {
		return trimmed
	}
	return base
}
