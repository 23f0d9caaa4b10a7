// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"errors"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/hostapi"
)

type fakeLibrary struct {
	syms     map[string]uintptr
	closed   int
	closeErr error
}

func (l *fakeLibrary) Lookup(name string) (uintptr, error) {
	sym, ok := l.syms[name]
	if !ok {
		return 0, errors.New("undefined symbol: " + name)
	}
	return sym, nil
}

func (l *fakeLibrary) Close() error {
	l.closed++
	return l.closeErr
}

// fullLibrary exports both entry points at addresses derived from id.
func fullLibrary(id uintptr) *fakeLibrary {
	return &fakeLibrary{syms: map[string]uintptr{
		abi.SymbolInspectConfig: id<<8 | 1,
		abi.SymbolOnItemSelect:  id<<8 | 2,
	}}
}

func fakeOpener(libs map[string]*fakeLibrary) Opener {
	return func(path string) (Library, error) {
		lib, ok := libs[path]
		if !ok {
			return nil, errors.New(path + ": cannot open shared object file")
		}
		return lib, nil
	}
}

type fakeEntrypoints struct {
	inspect  func(abi.HostConfig)
	onSelect func(*abi.Host) abi.List
}

func (f *fakeEntrypoints) InspectConfig(cfg abi.HostConfig) {
	if f.inspect != nil {
		f.inspect(cfg)
	}
}

func (f *fakeEntrypoints) OnItemSelect(host *abi.Host) abi.List {
	if f.onSelect == nil {
		return abi.NullList
	}
	return f.onSelect(host)
}

// fakeBinder records the addresses it was asked to bind.
type fakeBinder struct {
	bound [][2]uintptr
}

func (b *fakeBinder) bind(inspect, onSelect uintptr) Entrypoints {
	b.bound = append(b.bound, [2]uintptr{inspect, onSelect})
	return &fakeEntrypoints{}
}

func fakePlugin(name string, entry Entrypoints) *Plugin {
	p := NewPlugin(name, entry)
	p.Path = "/plugins/lib" + name + ".so"
	return p
}

// returning builds an entry point that hands back a list of args, the way a
// plugin's on_item_select does.
func returning(api *hostapi.API, args ...string) func(*abi.Host) abi.List {
	return func(*abi.Host) abi.List {
		l := api.CreateList()
		for _, a := range args {
			b := []byte(a)
			var p *byte
			if len(b) > 0 {
				p = &b[0]
			}
			if err := api.AppendToList(l, p, uintptr(len(b))); err != nil {
				panic(err)
			}
		}
		return l
	}
}
