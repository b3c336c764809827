package util

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/go-zkwallet/internal/config"
)

// ConfigureLogger sets the global log level and output format.
func ConfigureLogger(cfg config.Logger) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = "15:04:05"
		}))
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// LogFromContext returns the logger attached to ctx, or the global logger.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// WithRequestID attaches a logger carrying a fresh request_id to ctx, so all
// log lines of one pipeline can be correlated.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	l := LogFromContext(ctx).With().Str("request_id", id).Logger()
	return l.WithContext(ctx), id
}
