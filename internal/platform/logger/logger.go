// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide [*slog.Logger].
//
// Production output is JSON for log shippers; development output goes through
// 'lmittmann/tint' for a readable coloured console.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the handler and level.
type Options struct {
	Writer  io.Writer
	Console bool
	Debug   bool
	App     string
}

// New returns a logger tagged with the application name.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.Console {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(slog.String("app", opts.App))
}
