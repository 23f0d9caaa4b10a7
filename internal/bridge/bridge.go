// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package bridge exposes the host API to plugins as C symbols.
//
// A plugin resolves append_host and friends against the pssh executable at
// dlopen time, so the executable must export its dynamic symbols. The cgo
// directives in exports.go pass -rdynamic on ELF platforms; builds with
// CGO_ENABLED=0 carry no exports and plugins that import them fail to load.
//
// The exported functions forward to the *hostapi.API installed with
// Install. Contract violations are logged and degraded into the zero result
// of the call, never a panic across the boundary.
package bridge

import (
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/hostapi"
	"github.com/pssh/pssh/internal/logging"
)

type installed struct {
	api    *hostapi.API
	logger *slog.Logger
}

var current atomic.Pointer[installed]

// Install routes exported calls to api until the returned restore function
// runs, which reinstates whatever was installed before.
func Install(api *hostapi.API, logger *slog.Logger) (restore func()) {
	if logger == nil {
		logger = slog.Default()
	}
	prev := current.Swap(&installed{api: api, logger: logger.With("component", "bridge")})
	return func() {
		current.Store(prev)
	}
}

// Enabled reports whether this build exports the host symbols.
func Enabled() bool {
	return exportsEnabled
}

func active(op string) (*installed, bool) {
	in := current.Load()
	if in == nil || in.api == nil {
		slog.Default().Error("host call with no api installed", "op", op)
		return nil, false
	}
	return in, true
}

func (in *installed) fail(op string, err error) {
	logging.LogError(in.logger, "plugin contract violation",
		oops.In("bridge").With("op", op).Wrap(err))
}

func appendHost(cfg abi.HostConfig, rec unsafe.Pointer) {
	in, ok := active(abi.SymbolAppendHost)
	if !ok {
		return
	}
	if err := in.api.AppendHost(cfg, (*abi.Host)(rec)); err != nil {
		in.fail(abi.SymbolAppendHost, err)
	}
}

func removeHostByIndex(cfg abi.HostConfig, idx uintptr) bool {
	in, ok := active(abi.SymbolRemoveHostByIndex)
	if !ok {
		return false
	}
	return in.api.RemoveHost(cfg, idx)
}

func hostsLength(cfg abi.HostConfig) uintptr {
	in, ok := active(abi.SymbolHostsLength)
	if !ok {
		return 0
	}
	return in.api.HostsLen(cfg)
}

func getHostByIndex(cfg abi.HostConfig, idx uintptr, out unsafe.Pointer) bool {
	in, ok := active(abi.SymbolGetHostByIndex)
	if !ok {
		return false
	}
	return in.api.GetHost(cfg, idx, (*abi.Host)(out))
}

func createOptionsMap() abi.OptionsMap {
	in, ok := active(abi.SymbolCreateOptionsMap)
	if !ok {
		return abi.NullOptionsMap
	}
	return in.api.CreateOptionsMap()
}

func destroyOptionsMap(h abi.OptionsMap) {
	in, ok := active(abi.SymbolDestroyOptionsMap)
	if !ok {
		return
	}
	if err := in.api.DestroyOptionsMap(h); err != nil {
		in.fail(abi.SymbolDestroyOptionsMap, err)
	}
}

func optionsMapInsert(h abi.OptionsMap, key unsafe.Pointer, keyLen uintptr, value unsafe.Pointer, valueLen uintptr) bool {
	in, ok := active(abi.SymbolOptionsMapInsert)
	if !ok {
		return false
	}
	if err := in.api.InsertOptionRaw(h, (*byte)(key), keyLen, (*byte)(value), valueLen); err != nil {
		in.fail(abi.SymbolOptionsMapInsert, err)
		return false
	}
	return true
}

func optionsMapGet(h abi.OptionsMap, key unsafe.Pointer, keyLen uintptr, out unsafe.Pointer, outLen unsafe.Pointer) bool {
	in, ok := active(abi.SymbolOptionsMapGet)
	if !ok {
		return false
	}
	found, err := in.api.GetOptionRaw(h, (*byte)(key), keyLen, (**byte)(out), (*uintptr)(outLen))
	if err != nil {
		in.fail(abi.SymbolOptionsMapGet, err)
		return false
	}
	return found
}

func optionsMapLen(h abi.OptionsMap) uintptr {
	in, ok := active(abi.SymbolOptionsMapLen)
	if !ok {
		return 0
	}
	n, err := in.api.OptionsLen(h)
	if err != nil {
		in.fail(abi.SymbolOptionsMapLen, err)
		return 0
	}
	return uintptr(n)
}

func createList() abi.List {
	in, ok := active(abi.SymbolCreateList)
	if !ok {
		return abi.NullList
	}
	return in.api.CreateList()
}

func destroyList(h abi.List) {
	in, ok := active(abi.SymbolDestroyList)
	if !ok {
		return
	}
	if err := in.api.DestroyList(h); err != nil {
		in.fail(abi.SymbolDestroyList, err)
	}
}

func appendToList(h abi.List, buf unsafe.Pointer, n uintptr) {
	in, ok := active(abi.SymbolAppendToList)
	if !ok {
		return
	}
	if err := in.api.AppendToList(h, (*byte)(buf), n); err != nil {
		in.fail(abi.SymbolAppendToList, err)
	}
}
