// Package observability carries the structured logger, request tracing and
// Prometheus collectors shared by the binaries and the question pipeline.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/textsql/textsql/internal/config"
)

type traceIDKey struct{}

// NewLogger builds the process logger. A nil writer means stderr.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Observability.LogLevel,
		AddSource: cfg.Observability.LogLevel <= slog.LevelDebug,
	}
	var handler slog.Handler = slog.NewTextHandler(writer, opts)
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	}

	attrs := []any{slog.String("profile", string(cfg.Profile))}
	if cfg.Service.Name != "" {
		attrs = append(attrs, slog.String("service", cfg.Service.Name))
	}
	return slog.New(handler).With(attrs...)
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns "" outside an HTTP request.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// OrDiscard returns logger, or a logger that drops every record when logger is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
