/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"k8s.io/utils/env"
)

// Options control handler selection and verbosity.
type Options struct {
	// Debug forces debug level regardless of LOG_LEVEL.
	Debug bool
	// JSON selects the JSON handler instead of text.
	JSON bool
}

// Setup installs the default slog logger. Verbosity comes from the LOG_LEVEL
// environment variable (debug, info, warn, error) unless Debug is set.
func Setup(opts Options) {
	level := parseLevel(env.GetString("LOG_LEVEL", "info"))
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
