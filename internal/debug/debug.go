// Package debug provides protocol tracing. Tracing is off unless the
// WAYLAND_DEBUG environment variable is set to a positive number, as
// with libwayland.
package debug

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

func init() {
	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if err != nil {
		return
	}
	if debugLevel > 0 {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Str("component", "wayland").
			Logger()
	}
}

// SetLogger replaces the logger that traces are written to.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the current trace logger.
func Logger() *zerolog.Logger {
	return &logger
}

func Printf(str string, args ...any) {
	logger.Debug().Msgf(str, args...)
}

// Enabled reports whether traces are currently being written anywhere.
func Enabled() bool {
	return logger.Debug().Enabled()
}
