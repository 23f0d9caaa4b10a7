// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package logging

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. oops errors contribute their code and
// context as attributes.
func LogError(logger *slog.Logger, msg string, err error) {
	logAt(logger, slog.LevelError, msg, err)
}

// LogWarn is LogError at warn level, for failures the caller recovers from.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logAt(logger, slog.LevelWarn, msg, err)
}

func logAt(logger *slog.Logger, level slog.Level, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Log(context.Background(), level, msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil && code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Log(context.Background(), level, msg, attrs...)
}
