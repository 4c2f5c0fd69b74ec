// Package logger configures the global zerolog logger for Gistgrep.
// Components log through the zerolog/log global; only setup lives here.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. levelName is a zerolog level string
// ("debug", "info", ...); unknown values fall back to info. When pretty
// is true, output goes through the console writer for human reading.
func Init(levelName string, pretty bool) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
		})
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// SetOutput redirects the global logger. Useful for testing.
func SetOutput(w io.Writer) {
	log.Logger = log.Logger.Output(w)
}
