package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger. Every line carries the service
// attribute so multiple services can share a log sink.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", "storefront"))
}
