package jsonhttp

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware is the standard middleware signature compatible with the
// entire Go middleware ecosystem.
type Middleware func(next http.Handler) http.Handler

// Chain wraps h with the given middleware, outermost first:
// Chain(h, a, b) serves a(b(h)).
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Recovery returns middleware that recovers from panics and responds with
// 500. The pipelines already contain handler panics; this guards
// everything they cannot see: entity transforms, other middleware, and
// custom Handler implementations.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
