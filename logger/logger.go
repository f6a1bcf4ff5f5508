// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger builds the structured loggers shared by all components.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON *slog.Logger writing to w at the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level Level
	if err := level.UnmarshalText(levelText); err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(level),
	})

	return slog.New(handler), nil
}

// ExitWithError terminates the process with *code if it is non-zero.
// It is meant to be deferred first in main so other defers run before it.
func ExitWithError(code *int) {
	if code != nil && *code != 0 {
		os.Exit(*code)
	}
}

// NewMock returns a logger that discards everything.
func NewMock() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
