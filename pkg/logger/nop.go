package logger

import (
	"io"
	"log/slog"
)

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() *Impl {
	return &Impl{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
