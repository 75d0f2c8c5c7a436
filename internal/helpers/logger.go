package helpers

import (
	"io"
	"log/slog"
)

// NewNoopLogger returns a logger that discards everything written to it.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
