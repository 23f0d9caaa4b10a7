// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/oops"
)

// Discover returns the shared libraries directly inside dir, sorted by file
// name so load order is stable. A missing dir yields no paths.
func Discover(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.In("plugin").With("dir", dir).Wrapf(err, "read plugin directory")
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !libraryExt[filepath.Ext(entry.Name())] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
