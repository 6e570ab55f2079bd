package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const loggerCtxKey ctxKey = 1

// WithLogger returns a context carrying l
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey, l)
}

// FromContext returns the logger stored in ctx, else fallback, else the global logger
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return OrGlobal(fallback)
}
