package jsonhttp

import (
	"net/http"
	"strconv"
)

// Entity is one response payload unit: headers plus a body. Both success
// and error paths speak in entities; a Response records them in order.
//
// The With helpers return copies, so an entity handed to a post-processing
// transform cannot alias pipeline state.
type Entity struct {
	Header http.Header
	Body   []byte
}

// IsEmpty reports whether the entity has no headers and no body.
func (e Entity) IsEmpty() bool {
	return len(e.Header) == 0 && len(e.Body) == 0
}

// WithHeader returns a copy of e with the header set.
func (e Entity) WithHeader(name, value string) Entity {
	h := e.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(name, value)
	e.Header = h
	return e
}

// WithBody returns a copy of e with the given body.
func (e Entity) WithBody(body []byte) Entity {
	e.Body = body
	return e
}

// WithText returns a copy of e with the body set to text encoded in the
// given charset.
func (e Entity) WithText(text string, cs Charset) (Entity, error) {
	body, err := cs.Encode(text)
	if err != nil {
		return Entity{}, err
	}
	e.Body = body
	return e, nil
}

// WithContentLength returns a copy of e with Content-Length derived from
// the body.
func (e Entity) WithContentLength() Entity {
	return e.WithHeader(HeaderContentLength, strconv.Itoa(len(e.Body)))
}

// ContentLength returns the byte length of the body.
func (e Entity) ContentLength() int64 {
	return int64(len(e.Body))
}

// newTraceEntity renders a failure into a text/plain diagnostic entity:
// the message on the first line, then the stack dump.
func newTraceEntity(cause error, stack []byte) Entity {
	body := make([]byte, 0, len(cause.Error())+1+len(stack))
	body = append(body, cause.Error()...)
	body = append(body, '\n')
	body = append(body, stack...)
	return Entity{}.
		WithHeader(HeaderContentType, ContentTypeText).
		WithBody(body).
		WithContentLength()
}
