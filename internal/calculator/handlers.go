package calculator

import (
	"context"
	"io"
	"net/http"
	"time"

	"calculator-api/internal/handlers"
	"calculator-api/internal/observability"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints. It holds no per-request state and
// is safe for concurrent use.
type Handler struct {
	metrics      *Metrics
	maxBodyBytes int64
}

func NewHandler(metrics *Metrics, maxBodyBytes int64) *Handler {
	return &Handler{metrics: metrics, maxBodyBytes: maxBodyBytes}
}

// Calculate handles POST /calculate. Every failure, including a panic while
// evaluating, leaves through RecordError with a JSON body.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	req, resp, err := evaluate(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	opName := req.Operation.Name()
	if req.Operation != "" {
		span.SetName("calculator." + opName)
		span.SetAttributes(
			attribute.String("calculator.operation", opName),
			attribute.Float64("calculator.operand1", req.Operand1),
			attribute.Float64("calculator.operand2", req.Operand2),
		)
	}

	if err != nil {
		h.reject(ctx, span, logger, opName, err, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	h.metrics.ops.Add(ctx, 1, attrs)
	h.metrics.latency.Record(ctx, elapsed, attrs)
	h.metrics.result.Record(ctx, resp.Result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", resp.Result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", resp.Result))

	if err := handlers.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.reject(ctx, span, logger, opName, errors.Mark(err, ErrInternalFault), w)
		return
	}
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation completed",
		zap.String("expression", Expression(resp)),
		zap.String("operation", string(resp.Operation)),
		zap.Float64("operand1", resp.Operand1),
		zap.Float64("operand2", resp.Operand2),
		zap.Float64("result", resp.Result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)
}

// History handles GET /history. Calculations are not recorded, so the list
// is always empty.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	_ = handlers.WriteJSON(w, http.StatusOK, HistoryResponse{
		Message: "History feature not implemented yet",
		History: []CalcResponse{},
	})
}

func (h *Handler) reject(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	kind := classify(err)
	observability.RecordError(ctx, span, logger, h.metrics.errors, observability.Failure{
		Operation: opName,
		Kind:      kind.name,
		Message:   kind.msg,
		Status:    kind.status,
		Err:       err,
	}, w)
}

// evaluate runs decoding and computation, turning a panic into an internal
// fault so the handler always answers with JSON.
func evaluate(body io.Reader) (req Request, resp CalcResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fail(ErrInternalFault, "panic during calculation: %v", p)
		}
	}()

	req, err = Decode(body)
	if err != nil {
		return req, CalcResponse{}, err
	}

	resp, err = Compute(req)
	return req, resp, err
}
