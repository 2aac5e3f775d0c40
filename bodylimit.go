package jsonhttp

import "net/http"

// BodyLimit returns middleware that caps the request body at maxBytes.
// Adapter reads bodies in full before the pipeline runs, so an unbounded
// body is an unbounded allocation; put this in front of every Adapter.
// A declared Content-Length over the cap answers 413 immediately; an
// undeclared oversized body fails the capped read and surfaces through the
// pipeline's body gate instead.
func BodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
