// Package logger provides logging functionality.

package logger

import (
	"io"
	"os"
	"time"

	"acs-toolkit/internal/config"

	"github.com/rs/zerolog"
)

const formatJSON = "json"

// NewLog initializes a logger writing to stderr so that command output on stdout stays clean.
func NewLog(cfg *config.Config) *zerolog.Logger {
	return newLog(cfg, os.Stderr)
}

func newLog(cfg *config.Config, out io.Writer) *zerolog.Logger {
	var level zerolog.Level
	switch cfg.Logger.Level {
	case 0:
		level = zerolog.DebugLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.WarnLevel
	case 3:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	writer := out
	if cfg.Logger.Format != formatJSON {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	return &log
}
