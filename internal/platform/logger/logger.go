// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the application logger. Dev gets a human console writer,
// everything else structured JSON.
func New(serviceName, env string) zerolog.Logger {
	var logger zerolog.Logger
	if env == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
