package jsonhttp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	TokenLength int           // random bytes per token (default: 32)
	CookieName  string        // default: "_csrf"
	HeaderName  string        // default: "X-CSRF-Token"
	Secure      bool          // cookie Secure flag
	SameSite    http.SameSite // default: Lax
}

// csrfToken is the typed context value holding the current CSRF token.
type csrfToken string

// CSRF returns middleware implementing double-submit cookie protection.
// Safe methods (GET, HEAD, OPTIONS) pass through and are issued a token
// cookie; unsafe methods must echo the cookie token in the configured
// header or are refused with 403.
func CSRF(cfg ...CSRFConfig) Middleware {
	c := CSRFConfig{
		TokenLength: 32,
		CookieName:  "_csrf",
		HeaderName:  "X-CSRF-Token",
		SameSite:    http.SameSiteLaxMode,
	}
	if len(cfg) > 0 {
		if cfg[0].TokenLength > 0 {
			c.TokenLength = cfg[0].TokenLength
		}
		if cfg[0].CookieName != "" {
			c.CookieName = cfg[0].CookieName
		}
		if cfg[0].HeaderName != "" {
			c.HeaderName = cfg[0].HeaderName
		}
		c.Secure = cfg[0].Secure
		if cfg[0].SameSite != 0 {
			c.SameSite = cfg[0].SameSite
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(c.CookieName); err == nil {
				token = cookie.Value
			}

			if token == "" {
				token = newCSRFToken(c.TokenLength)
				http.SetCookie(w, &http.Cookie{
					Name:     c.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   c.Secure,
					SameSite: c.SameSite,
				})
			}

			r = SetValue(r, csrfToken(token))

			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(c.HeaderName)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken extracts the issued token from the request context, for
// handlers that render it back to clients.
func GetCSRFToken(r *http.Request) string {
	token, _ := GetValue[csrfToken](r.Context())
	return string(token)
}

func newCSRFToken(length int) string {
	b := make([]byte, length)
	rand.Read(b) //nolint:errcheck,gosec // crypto/rand.Read never fails
	return hex.EncodeToString(b)
}
