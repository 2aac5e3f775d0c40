package jsonhttp

import (
	"net/http"
	"strconv"
)

// SecureConfig configures the Secure headers middleware.
type SecureConfig struct {
	ContentTypeNosniff bool   // X-Content-Type-Options: nosniff
	FrameOptions       string // X-Frame-Options value, e.g. "DENY" or "SAMEORIGIN"; empty drops the header
	HSTSMaxAge         int    // seconds; if >0 sets Strict-Transport-Security
	XSSProtection      string // X-XSS-Protection value; empty drops the header
	ReferrerPolicy     string // Referrer-Policy value; empty drops the header
}

// Secure returns middleware that sets conservative security response
// headers. With no arguments, it uses sensible defaults.
func Secure(cfg ...SecureConfig) Middleware {
	c := SecureConfig{
		ContentTypeNosniff: true,
		FrameOptions:       "DENY",
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if len(cfg) > 0 {
		c = cfg[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if c.ContentTypeNosniff {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if c.FrameOptions != "" {
				h.Set("X-Frame-Options", c.FrameOptions)
			}
			if c.HSTSMaxAge > 0 {
				h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(c.HSTSMaxAge))
			}
			if c.XSSProtection != "" {
				h.Set("X-XSS-Protection", c.XSSProtection)
			}
			if c.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", c.ReferrerPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
