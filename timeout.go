package jsonhttp

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that adds a deadline to the request context.
// The pipelines never wait internally, so a slow handler function blocks
// its request indefinitely; timeout policy lives here at the transport
// layer. Handler functions observe the deadline through the ctx they are
// handed and are expected to return promptly once it passes.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
