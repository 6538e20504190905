package httpx

import "net/http"

// Middleware wraps a handler with one stage of request processing.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware around h. The first middleware is the outermost,
// so Chain(h, a, b) serves a(b(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
