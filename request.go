package jsonhttp

import (
	"context"
	"io"
	"net/http"
	"strconv"
)

// Request is the read side of one HTTP exchange. Implementations complete
// all I/O before a pipeline runs; BodyText and BodyLength operate on bytes
// already in memory, so pipelines never block on the network.
type Request interface {
	// Method returns the HTTP method, e.g. "POST".
	Method() string
	// Target returns the request target from the request line.
	Target() string
	// Proto returns the protocol version, e.g. "HTTP/1.1".
	Proto() string
	// Header returns the first value of the named header; ok is false when
	// the header is absent.
	Header(name string) (value string, ok bool)
	// BodyText returns the body decoded as text using the charset named by
	// the request's own Content-Type, defaulting to UTF-8.
	BodyText() (string, error)
	// BodyLength returns the raw byte length of the body.
	BodyLength() int64
	// Context returns the context handed to handler functions.
	Context() context.Context
}

// httpRequest adapts an *http.Request. The body is read in full at
// construction; a read failure is surfaced by BodyText so it flows through
// the body gate rather than aborting the exchange.
type httpRequest struct {
	r    *http.Request
	body []byte
	err  error
}

func newHTTPRequest(r *http.Request) *httpRequest {
	hr := &httpRequest{r: r}
	if r.Body != nil {
		hr.body, hr.err = io.ReadAll(r.Body)
	}
	return hr
}

func (hr *httpRequest) Method() string { return hr.r.Method }

func (hr *httpRequest) Target() string {
	if hr.r.RequestURI != "" {
		return hr.r.RequestURI
	}
	return hr.r.URL.RequestURI()
}

func (hr *httpRequest) Proto() string { return hr.r.Proto }

func (hr *httpRequest) Header(name string) (string, bool) {
	if vs := hr.r.Header.Values(name); len(vs) > 0 {
		return vs[0], true
	}
	// httptest and client-built requests carry the length in the
	// ContentLength field without a header map entry.
	if http.CanonicalHeaderKey(name) == HeaderContentLength && hr.r.ContentLength > 0 {
		return strconv.FormatInt(hr.r.ContentLength, 10), true
	}
	return "", false
}

func (hr *httpRequest) BodyText() (string, error) {
	if hr.err != nil {
		return "", hr.err
	}
	cs := UTF8
	if ct, ok := hr.Header(HeaderContentType); ok {
		if mt, err := ParseMediaType(ct); err == nil {
			if name, ok := mt.Param("charset"); ok {
				resolved, err := CharsetByName(name)
				if err != nil {
					return "", err
				}
				cs = resolved
			}
		}
	}
	return cs.Decode(hr.body)
}

func (hr *httpRequest) BodyLength() int64 { return int64(len(hr.body)) }

func (hr *httpRequest) Context() context.Context { return hr.r.Context() }
