// Package logging configures the zerolog diagnostic channel. Human
// facing run output (headers, tables, progress) stays on the ui
// package; this logger carries component-level diagnostics.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns the process logger. Verbose enables debug level.
func New(verbose bool) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339Nano,
	})
}
