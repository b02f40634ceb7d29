package slogx

import (
	"context"
	"log/slog"
)

// RequestIDKey is the attribute the gateway tags request-scoped log lines
// with. It matches the X-Request-ID header echoed back to callers, so a log
// line can be tied to the response that reported it.
const RequestIDKey = "request_id"

type ctxKey struct{}

// WithContext stores a logger on the context for the layers below a gateway
// handler.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, falling back to the process
// default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithRequestID tags the context's logger with the gateway request id. An
// empty id leaves the context untouched.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return WithContext(ctx, FromContext(ctx).With(slog.String(RequestIDKey, reqID)))
}
