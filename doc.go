// Package jsonhttp adapts plain transformation functions into HTTP handlers
// that speak JSON. A handler never touches the wire: it receives a decoded
// input and returns an output, and the pipeline owns every HTTP-visible
// decision, from method and header gates through body and Content-Length
// validation, charset negotiation, status selection, and error shaping.
//
// Two pipeline variants exist. The untyped variant parses the body into a
// generic JSON value and accepts any method:
//
//	h := jsonhttp.JSON(func(ctx context.Context, v any) (any, error) {
//	    return v, nil
//	})
//
// The typed variant requires POST with Content-Type and Accept set to
// application/json, and marshals through declared input/output types:
//
//	h := jsonhttp.Post[Query, Result](runQuery)
//
// Both return a Handler operating on the package's Request/Response model,
// which records the full status line (code and message) and an ordered
// entity sequence. Adapter bridges a Handler onto net/http:
//
//	mux.Handle("/query", jsonhttp.Adapter(h))
//
// Every failure mode maps to a fixed status and message format, e.g.
// "Expected POST got GET" (405) or "Required body missing" (400), so the
// wire contract is stable across handlers.
//
// A middleware kit rides alongside the adapter: Chain, Recovery, Logger,
// RequestID, RateLimit, BodyLimit, Timeout, CORS, CSRF, Compress, ETag,
// Secure, and the redirect helpers all use the plain
// func(http.Handler) http.Handler shape, so they compose with any router.
package jsonhttp
