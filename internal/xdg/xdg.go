// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package xdg resolves the XDG base directories pssh reads from.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "pssh"

// ConfigDir returns $XDG_CONFIG_HOME/pssh, falling back to ~/.config/pssh.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/pssh, falling back to ~/.local/share/pssh.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}

// PluginDir is where plugins are discovered when no directory is configured.
func PluginDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plugins"), nil
}

func resolve(env string, fallback ...string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", oops.In("xdg").With("env", env).Wrapf(err, "%s unset and no home directory", env)
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}
