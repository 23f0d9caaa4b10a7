// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build !(darwin || freebsd || linux || windows)

package plugin

import (
	"runtime"

	"github.com/samber/oops"
)

var libraryExt = map[string]bool{}

func openNative(path string) (Library, error) {
	return nil, oops.In("plugin").Code(CodeOpenFailed).With("path", path).
		Errorf("native plugins are not supported on %s", runtime.GOOS)
}

func bindNative(_, _ uintptr) Entrypoints {
	panic("plugin: native entry points are not supported on " + runtime.GOOS)
}
