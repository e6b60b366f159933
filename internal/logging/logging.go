// Package logging настраивает глобальный zerolog-логгер сервиса.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Debug      bool
	Production bool
}

// Setup выставляет уровень и формат вывода глобального логгера и возвращает его.
func Setup(opts Options) zerolog.Logger {
	return SetupWriter(os.Stderr, opts)
}

// SetupWriter: то же, что Setup, но с произвольным writer'ом.
func SetupWriter(out io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := out
	if !opts.Production {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !isTerminal(out),
			TimeFormat: time.TimeOnly,
		}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return log.Logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
