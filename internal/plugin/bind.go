// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build darwin || freebsd || linux || windows

package plugin

import (
	"github.com/ebitengine/purego"

	"github.com/pssh/pssh/internal/abi"
)

// nativeEntrypoints calls plugin exports through purego trampolines.
type nativeEntrypoints struct {
	inspect  func(abi.HostConfig)
	onSelect func(*abi.Host) abi.List
}

func (n *nativeEntrypoints) InspectConfig(cfg abi.HostConfig) {
	n.inspect(cfg)
}

func (n *nativeEntrypoints) OnItemSelect(host *abi.Host) abi.List {
	return n.onSelect(host)
}

// bindNative is the default Binder.
func bindNative(inspect, onSelect uintptr) Entrypoints {
	n := &nativeEntrypoints{}
	purego.RegisterFunc(&n.inspect, inspect)
	purego.RegisterFunc(&n.onSelect, onSelect)
	return n
}
