// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build windows

package plugin

import (
	"github.com/samber/oops"
	"golang.org/x/sys/windows"
)

// libraryExt is the shared library suffix Discover looks for.
var libraryExt = map[string]bool{".dll": true}

type dllLibrary struct {
	handle windows.Handle
	path   string
}

// openNative is the default Opener.
func openNative(path string) (Library, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, oops.In("plugin").Code(CodeOpenFailed).With("path", path).Wrap(err)
	}
	return &dllLibrary{handle: h, path: path}, nil
}

func (l *dllLibrary) Lookup(name string) (uintptr, error) {
	sym, err := windows.GetProcAddress(l.handle, name)
	if err != nil {
		return 0, oops.In("plugin").Code(CodeSymbolMissing).With("path", l.path).With("symbol", name).Wrap(err)
	}
	return sym, nil
}

func (l *dllLibrary) Close() error {
	if err := windows.FreeLibrary(l.handle); err != nil {
		return oops.In("plugin").With("path", l.path).Wrap(err)
	}
	return nil
}
