package logging

import (
	"io"
	"os"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger creates a zerolog logger with pretty console output for development or JSON output for production.
// The Sentry writer is nil outside production.
func NewLogger(cfg *config.Config) (zerolog.Logger, *sentryzerolog.Writer) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsEnvProd() {
		return console(os.Stderr), nil
	}

	sentryWriter, err := sentryzerolog.New(sentryzerolog.Config{
		Options: sentryzerolog.Options{
			Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
			WithBreadcrumbs: true,
			FlushTimeout:    3 * time.Second,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Sentry writer, using console only")
		return console(os.Stderr), nil
	}

	return zerolog.New(zerolog.MultiLevelWriter(os.Stderr, sentryWriter)).
		With().
		Timestamp().
		Caller().
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Logger(), sentryWriter
}

func console(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).
		With().
		Timestamp().
		Caller().
		Logger()
}
