package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/discography/internal/domain"
)

var tracer = otel.Tracer("rest")

// RequestLog tags the request with an id and writes one log record per
// request once the handler has finished.
func RequestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Rest.Middleware.RequestLog")
		defer span.End()

		req := c.Request()
		requestID := req.Header.Get(domain.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, domain.RequestIDCtxKey, requestID)
		span.SetAttributes(attribute.String("RequestId", requestID))
		c.Response().Header().Set(domain.RequestIDHeader, requestID)
		c.SetRequest(req.WithContext(ctx))

		start := time.Now()
		err := next(c)
		if err != nil {
			span.RecordError(err)
			c.Error(err)
		}

		attrs := []any{
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", c.Response().Status),
			slog.Duration("latency", time.Since(start)),
			slog.String("requestId", requestID),
			slog.String("module", "rest"),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			attrs = append(attrs, slog.String("traceId", sc.TraceID().String()))
		}
		slog.InfoContext(ctx, "request", attrs...)
		return nil
	}
}
