// Package jsonhttptest provides request builders and typed client helpers
// for testing jsonhttp pipelines, both directly against a Recorder and
// end-to-end through Adapter.
package jsonhttptest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bjaus/jsonhttp"
)

// Request is a fixed-value jsonhttp.Request for driving a pipeline
// directly against a Recorder, with no transport involved.
type Request struct {
	method  string
	target  string
	proto   string
	headers http.Header
	body    string
	bodyErr error
	ctx     context.Context
}

var _ jsonhttp.Request = (*Request)(nil)

// RequestOption configures a Request.
type RequestOption func(*Request)

// NewRequest builds a value request. The proto defaults to HTTP/1.1 and
// the context to context.Background.
func NewRequest(method, target string, opts ...RequestOption) *Request {
	r := &Request{
		method:  method,
		target:  target,
		proto:   "HTTP/1.1",
		headers: http.Header{},
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithProto sets the protocol version.
func WithProto(proto string) RequestOption {
	return func(r *Request) { r.proto = proto }
}

// WithHeader sets a header.
func WithHeader(name, value string) RequestOption {
	return func(r *Request) { r.headers.Set(name, value) }
}

// WithBodyText sets the body text without touching any headers, so
// Content-Length gates can be exercised independently.
func WithBodyText(text string) RequestOption {
	return func(r *Request) { r.body = text }
}

// WithJSON sets the body text plus the Content-Type and Content-Length
// headers a well-formed JSON request carries.
func WithJSON(text string) RequestOption {
	return func(r *Request) {
		r.body = text
		r.headers.Set("Content-Type", "application/json")
		r.headers.Set("Content-Length", strconv.Itoa(len(text)))
	}
}

// WithContentLength sets the Content-Length header to n regardless of the
// actual body length.
func WithContentLength(n int) RequestOption {
	return func(r *Request) { r.headers.Set("Content-Length", strconv.Itoa(n)) }
}

// WithBodyError makes BodyText fail with err.
func WithBodyError(err error) RequestOption {
	return func(r *Request) { r.bodyErr = err }
}

// WithContext sets the context handed to handler functions.
func WithContext(ctx context.Context) RequestOption {
	return func(r *Request) { r.ctx = ctx }
}

// Method implements jsonhttp.Request.
func (r *Request) Method() string { return r.method }

// Target implements jsonhttp.Request.
func (r *Request) Target() string { return r.target }

// Proto implements jsonhttp.Request.
func (r *Request) Proto() string { return r.proto }

// Header implements jsonhttp.Request.
func (r *Request) Header(name string) (string, bool) {
	if vs := r.headers.Values(name); len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// BodyText implements jsonhttp.Request.
func (r *Request) BodyText() (string, error) {
	if r.bodyErr != nil {
		return "", r.bodyErr
	}
	return r.body, nil
}

// BodyLength implements jsonhttp.Request.
func (r *Request) BodyLength() int64 { return int64(len(r.body)) }

// Context implements jsonhttp.Request.
func (r *Request) Context() context.Context { return r.ctx }
