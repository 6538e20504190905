package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

type accessKey struct{}

// accessAttrs collects attributes for the access log line of one request.
type accessAttrs struct {
	mu    sync.Mutex
	attrs []any
}

// WithContext stores logger on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// AddAccessAttrs appends key/value pairs to the access log line HTTPMiddleware
// writes when the request completes. Outside HTTPMiddleware it does nothing.
func AddAccessAttrs(ctx context.Context, args ...any) {
	a, ok := ctx.Value(accessKey{}).(*accessAttrs)
	if !ok {
		return
	}
	a.mu.Lock()
	a.attrs = append(a.attrs, args...)
	a.mu.Unlock()
}

func (a *accessAttrs) snapshot() []any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]any(nil), a.attrs...)
}
