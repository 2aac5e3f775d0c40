package jsonhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressConfig configures the Compress middleware.
type CompressConfig struct {
	Level   int      // gzip level 1-9 (default: 5)
	MinSize int      // minimum body size to compress, in bytes (default: 1024)
	Types   []string // content-type substrings to compress (default: application/json, text/)
}

// Compress returns middleware that gzip-encodes response bodies when the
// client sends Accept-Encoding: gzip. Whether to compress is decided at the
// first body write, so the status line is held back until then and replayed
// once the Content-Encoding headers are settled. Compressed responses lose
// their Content-Length.
func Compress(cfg ...CompressConfig) Middleware {
	c := CompressConfig{
		Level:   5,
		MinSize: 1024,
		Types:   []string{"application/json", "text/"},
	}
	if len(cfg) > 0 {
		if cfg[0].Level > 0 {
			c.Level = cfg[0].Level
		}
		if cfg[0].MinSize > 0 {
			c.MinSize = cfg[0].MinSize
		}
		if len(cfg[0].Types) > 0 {
			c.Types = cfg[0].Types
		}
	}
	if c.Level > gzip.BestCompression {
		panic("jsonhttp: invalid gzip level")
	}

	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, c.Level) //nolint:errcheck // level checked above
			return gz
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gz := pool.Get().(*gzip.Writer) //nolint:forcetypeassert // pool holds *gzip.Writer only
			gz.Reset(w)

			cw := &compressWriter{
				ResponseWriter: w,
				gz:             gz,
				minSize:        c.MinSize,
				types:          c.Types,
			}

			w.Header().Set("Vary", "Accept-Encoding")
			next.ServeHTTP(cw, r)
			cw.finish()

			if cw.active {
				gz.Close() //nolint:errcheck,gosec // best-effort flush
			}
			pool.Put(gz)
		})
	}
}

type compressWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	minSize int
	types   []string
	status  int
	decided bool
	active  bool
}

// WriteHeader is deferred until the first body write so the compression
// decision can still amend the headers it would otherwise have flushed.
func (c *compressWriter) WriteHeader(code int) {
	if c.decided {
		c.ResponseWriter.WriteHeader(code)
		return
	}
	c.status = code
}

func (c *compressWriter) Write(b []byte) (int, error) {
	if !c.decided {
		c.decided = true
		if c.eligible(c.Header().Get("Content-Type")) && len(b) >= c.minSize {
			c.active = true
			c.Header().Set("Content-Encoding", "gzip")
			c.Header().Del("Content-Length")
		}
		if c.status != 0 {
			c.ResponseWriter.WriteHeader(c.status)
		}
	}

	if c.active {
		return c.gz.Write(b)
	}
	return c.ResponseWriter.Write(b)
}

func (c *compressWriter) eligible(contentType string) bool {
	// Skip SSE and already-encoded responses.
	if strings.Contains(contentType, "event-stream") {
		return false
	}
	if c.Header().Get("Content-Encoding") != "" {
		return false
	}
	for _, t := range c.types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

// finish flushes a held-back status line for responses without a body.
func (c *compressWriter) finish() {
	if !c.decided && c.status != 0 {
		c.decided = true
		c.ResponseWriter.WriteHeader(c.status)
	}
}

func (c *compressWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
