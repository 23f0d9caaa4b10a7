// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package plugin loads native plugin libraries and invokes their entry
// points.
//
// A plugin is a shared library exporting inspect_config and on_item_select.
// Manager opens plugins in the configured order and keeps the ones that
// load; Runtime drives the two call sites against them.
package plugin

import (
	"github.com/pssh/pssh/internal/abi"
)

// Library is an opened shared library.
type Library interface {
	// Lookup returns the address of the exported symbol name.
	Lookup(name string) (uintptr, error)
	// Close unloads the library.
	Close() error
}

// Opener opens the shared library at path.
type Opener func(path string) (Library, error)

// Entrypoints are a plugin's resolved exports, bound once at load time.
type Entrypoints interface {
	// InspectConfig lets the plugin read and mutate the attached config.
	InspectConfig(cfg abi.HostConfig)
	// OnItemSelect returns a list handle with a command override, or
	// abi.NullList for no opinion.
	OnItemSelect(host *abi.Host) abi.List
}

// Binder turns resolved symbol addresses into callable entry points.
type Binder func(inspect, onSelect uintptr) Entrypoints

// Plugin is a successfully loaded plugin.
type Plugin struct {
	// Name is derived from the library file name.
	Name string
	// Path is the path the plugin was loaded from.
	Path string

	entry Entrypoints
	lib   Library
}

// NewPlugin wraps entry points that are not backed by a shared library,
// such as ones compiled into the host.
func NewPlugin(name string, entry Entrypoints) *Plugin {
	return &Plugin{Name: name, entry: entry}
}
