package jsonhttp

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// ETagConfig configures the ETag middleware.
type ETagConfig struct {
	Weak bool // emit W/-prefixed validators
}

// ETag returns middleware that buffers GET and HEAD responses, tags
// successful ones with a hash of the body, and answers a matching
// If-None-Match with 304 and no body.
func ETag(cfg ...ETagConfig) Middleware {
	c := ETagConfig{}
	if len(cfg) > 0 {
		c = cfg[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rec := &etagWriter{
				ResponseWriter: w,
				buf:            &bytes.Buffer{},
				status:         http.StatusOK,
			}
			next.ServeHTTP(rec, r)

			// Non-2xx responses replay untagged.
			if rec.status < 200 || rec.status >= 300 {
				w.WriteHeader(rec.status)
				w.Write(rec.buf.Bytes()) //nolint:errcheck,gosec // best-effort write
				return
			}

			sum := sha256.Sum256(rec.buf.Bytes())
			tag := `"` + hex.EncodeToString(sum[:8]) + `"`
			if c.Weak {
				tag = "W/" + tag
			}
			w.Header().Set("ETag", tag)

			if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, tag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}

			w.WriteHeader(rec.status)
			w.Write(rec.buf.Bytes()) //nolint:errcheck,gosec // best-effort write
		})
	}
}

type etagWriter struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

func (e *etagWriter) WriteHeader(code int) {
	e.status = code
}

func (e *etagWriter) Write(b []byte) (int, error) {
	return e.buf.Write(b)
}
