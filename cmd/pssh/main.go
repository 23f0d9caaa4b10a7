// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package main is the entry point for the pssh SSH launcher.
package main

import (
	"fmt"
	"os"

	"github.com/pssh/pssh/internal/launcher"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode passes a launched command's exit status through.
func exitCode(err error) int {
	if code := launcher.ExitCode(err); code > 0 {
		return code
	}
	return 1
}
