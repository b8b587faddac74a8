package observability

import (
	"context"
	"net/http"

	"calculator-api/internal/handlers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Failure describes one rejected or failed request. Message and Status are
// what the caller sees; Err carries the detail that only goes to the span and
// the log.
type Failure struct {
	Operation string
	Kind      string
	Message   string
	Status    int
	Err       error
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error HTTP response. Server errors log at error level,
// client errors at warn.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, f Failure, w http.ResponseWriter) {
	span.RecordError(f.Err)
	span.SetStatus(codes.Error, f.Message)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", f.Operation),
		attribute.String("kind", f.Kind),
	))

	level := zapcore.WarnLevel
	if f.Status >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}

	logger.Log(level, f.Message,
		zap.String("operation", f.Operation),
		zap.String("kind", f.Kind),
		zap.Int("status", f.Status),
		zap.Error(f.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	handlers.WriteError(w, f.Status, f.Message)
}
