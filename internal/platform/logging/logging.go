// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup writes human-readable logs to stderr at the given level.
// An unknown level falls back to info.
func Setup(level string) {
	SetupWriter(os.Stderr, level)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level string) {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
