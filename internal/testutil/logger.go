package testutil

import (
	"io"

	"github.com/charmbracelet/log"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *log.Logger {
	return log.New(io.Discard)
}
