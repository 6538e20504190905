package slogx

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/idx"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 128

// Option tunes HTTPMiddleware.
type Option func(*middlewareOptions)

type middlewareOptions struct {
	clientIP   func(*http.Request) string
	quietPaths []string
}

// WithClientIP logs the address returned by resolve as client_ip.
func WithClientIP(resolve func(*http.Request) string) Option {
	return func(o *middlewareOptions) { o.clientIP = resolve }
}

// WithQuietPaths logs successful requests to paths at debug level. Probes
// would otherwise drown the access log.
func WithQuietPaths(paths ...string) Option {
	return func(o *middlewareOptions) { o.quietPaths = append(o.quietPaths, paths...) }
}

// HTTPMiddleware assigns each request an id, puts a request-scoped logger in
// its context and writes one access log line when it completes.
func HTTPMiddleware(base *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	var o middlewareOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			attrs := []any{
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
			}
			if o.clientIP != nil {
				attrs = append(attrs, "client_ip", o.clientIP(r))
			} else {
				attrs = append(attrs, "remote_addr", r.RemoteAddr)
			}
			logger := base.With(attrs...)

			access := &accessAttrs{}
			ctx := WithContext(r.Context(), logger)
			ctx = context.WithValue(ctx, accessKey{}, access)
			r = r.WithContext(ctx)

			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			switch {
			case rw.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rw.status < http.StatusBadRequest && slices.Contains(o.quietPaths, r.URL.Path):
				level = slog.LevelDebug
			}

			fields := append([]any{
				"status", rw.status,
				"bytes", rw.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			}, access.snapshot()...)
			logger.Log(ctx, level, "http_request", fields...)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status  int
	written int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
