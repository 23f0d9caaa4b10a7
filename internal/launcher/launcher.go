// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package launcher runs a resolved command line through the configured
// launcher prefix, e.g. `sh -c "<command>"`.
package launcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/samber/oops"
)

// CodeLaunchFailed marks a command that could not be started or exited
// unsuccessfully.
const CodeLaunchFailed = "LAUNCH_FAILED"

// Launcher runs command lines with a fixed prefix.
type Launcher struct {
	prefix []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithIO replaces the standard streams the command inherits.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	}
}

// WithLogger sets the launcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// New creates a launcher. Panics if prefix is empty.
func New(prefix []string, opts ...Option) *Launcher {
	if len(prefix) == 0 {
		panic("launcher: prefix cannot be empty")
	}
	l := &Launcher{
		prefix: append([]string(nil), prefix...),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Argv returns the full argument vector used to run line.
func (l *Launcher) Argv(line string) []string {
	return append(append([]string(nil), l.prefix...), line)
}

// Command builds the process for line without starting it.
func (l *Launcher) Command(ctx context.Context, line string) *exec.Cmd {
	argv := l.Argv(line)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 -- running the user's chosen command is the point
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.stdin, l.stdout, l.stderr
	return cmd
}

// Run starts line and waits for it to exit.
func (l *Launcher) Run(ctx context.Context, line string) error {
	cmd := l.Command(ctx, line)
	l.logger.DebugContext(ctx, "launching", "argv", cmd.Args)

	if err := cmd.Run(); err != nil {
		return oops.In("launcher").Code(CodeLaunchFailed).With("command", line).With("exit_code", ExitCode(err)).Wrap(err)
	}
	return nil
}

// ExitCode returns the exit status carried by err, 0 for nil, or -1 when
// err did not come from a process that exited.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
