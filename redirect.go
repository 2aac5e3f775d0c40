package jsonhttp

import (
	"net/http"
	"strings"
)

// redirectStatus picks a code that preserves the request method. A 301
// lets clients replay a POST as GET, which drops the body the pipelines
// depend on.
func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusMovedPermanently
	}
	return http.StatusPermanentRedirect
}

// forwardedHTTPS reports whether the request arrived over TLS, directly or
// through a terminating proxy.
func forwardedHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// HTTPSRedirect returns middleware that redirects plain HTTP requests to
// HTTPS.
func HTTPSRedirect() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !forwardedHTTPS(r) {
				http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), redirectStatus(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TrailingSlash returns middleware that redirects paths with trailing
// slashes to their canonical form.
func TrailingSlash() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
				target := strings.TrimRight(r.URL.Path, "/")
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, redirectStatus(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NonWWWRedirect returns middleware that redirects the www subdomain to the
// bare host.
func NonWWWRedirect() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Host, "www.") {
				scheme := "http"
				if forwardedHTTPS(r) {
					scheme = "https"
				}
				target := scheme + "://" + strings.TrimPrefix(r.Host, "www.") + r.URL.RequestURI()
				http.Redirect(w, r, target, redirectStatus(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
