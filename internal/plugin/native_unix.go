// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build darwin || freebsd || linux

package plugin

import (
	"github.com/ebitengine/purego"
	"github.com/samber/oops"
)

// libraryExt is the shared library suffix Discover looks for.
var libraryExt = map[string]bool{".so": true, ".dylib": true}

type dlLibrary struct {
	handle uintptr
	path   string
}

// openNative is the default Opener.
func openNative(path string) (Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, oops.In("plugin").Code(CodeOpenFailed).With("path", path).Wrap(err)
	}
	return &dlLibrary{handle: h, path: path}, nil
}

func (l *dlLibrary) Lookup(name string) (uintptr, error) {
	sym, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, oops.In("plugin").Code(CodeSymbolMissing).With("path", l.path).With("symbol", name).Wrap(err)
	}
	return sym, nil
}

func (l *dlLibrary) Close() error {
	if err := purego.Dlclose(l.handle); err != nil {
		return oops.In("plugin").With("path", l.path).Wrap(err)
	}
	return nil
}
