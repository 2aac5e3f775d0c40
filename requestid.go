package jsonhttp

import (
	"net/http"

	"github.com/google/uuid"
)

// requestID is the typed context value holding the current request ID.
type requestID string

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	Header    string        // default: "X-Request-ID"
	Generator func() string // default: uuid.NewString
}

// RequestID returns middleware that assigns a unique request ID to each
// request. The ID is read from the request header (if present) or
// generated, stored in the context, and set on the response header.
func RequestID(cfg ...RequestIDConfig) Middleware {
	c := RequestIDConfig{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}
	if len(cfg) > 0 {
		if cfg[0].Header != "" {
			c.Header = cfg[0].Header
		}
		if cfg[0].Generator != nil {
			c.Generator = cfg[0].Generator
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(c.Header)
			if id == "" {
				id = c.Generator()
			}

			w.Header().Set(c.Header, id)
			next.ServeHTTP(w, SetValue(r, requestID(id)))
		})
	}
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) string {
	id, _ := GetValue[requestID](r.Context())
	return string(id)
}
