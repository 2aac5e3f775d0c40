package jsonhttp

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
)

// exchange holds one in-flight request/response pair plus the gate steps
// shared by both pipelines. Each gate either returns a usable value or
// writes a terminal error response; callers stop at the first failure. An
// exchange lives for exactly one Handle call and is never shared.
type exchange struct {
	req  Request
	resp Response

	// entityOnError makes bare error statuses carry an empty entity. The
	// untyped pipeline always attaches one; the typed pipeline attaches
	// entities only when there is a cause to dump.
	entityOnError bool
}

// fail writes a terminal error status with no cause.
func (x *exchange) fail(status Status) {
	x.resp.SetStatus(status)
	if x.entityOnError {
		x.resp.AddEntity(Entity{})
	}
}

// failCause writes a terminal error status plus a stack-trace entity.
func (x *exchange) failCause(status Status, cause error, stack []byte) {
	x.resp.SetStatus(status)
	x.resp.AddEntity(newTraceEntity(cause, stack))
}

// badRequest writes a 400 with the given message.
func (x *exchange) badRequest(message string) {
	x.fail(StatusOf(http.StatusBadRequest).WithMessage(message))
}

// serverError writes the single 500 produced by a handler failure: the
// cause's message (or the default when it has none) plus a stack-trace
// entity. Both pipelines attach the entity here.
func (x *exchange) serverError(cause error, stack []byte) {
	x.resp.SetStatus(StatusOf(http.StatusInternalServerError).WithMessageOrDefault(cause.Error()))
	x.resp.AddEntity(newTraceEntity(cause, stack))
}

// bodyText runs the shared body gates in order: read, presence,
// Content-Length present, declared length equals actual length. ok is
// false when a terminal response has been written.
func (x *exchange) bodyText() (string, bool) {
	text, err := x.req.BodyText()
	if err != nil {
		x.failCause(
			StatusOf(http.StatusBadRequest).WithMessage("Invalid content: "+err.Error()),
			err,
			debug.Stack(),
		)
		return "", false
	}

	if text == "" {
		x.badRequest("Required body missing")
		return "", false
	}

	declared, ok := x.contentLength()
	if !ok {
		x.fail(StatusOf(http.StatusLengthRequired))
		return "", false
	}

	if actual := x.req.BodyLength(); declared != actual {
		x.badRequest(fmt.Sprintf("%s: %d != body length=%d mismatch", HeaderContentLength, declared, actual))
		return "", false
	}

	return text, true
}

// contentLength returns the declared Content-Length. An unparseable value
// reads as absent, which the body gate answers with 411.
func (x *exchange) contentLength() (int64, bool) {
	v, ok := x.req.Header(HeaderContentLength)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// charset negotiates the response charset from Accept-Charset, defaulting
// to UTF-8 when the header is absent. A failure wraps ErrNotAcceptable and
// is propagated by Handle, never mapped to a status.
func (x *exchange) charset() (Charset, error) {
	raw, ok := x.req.Header(HeaderAcceptCharset)
	if !ok {
		return UTF8, nil
	}
	return ParseAcceptCharset(raw).Charset()
}

// invoke calls fn guarding against panics, so a handler failure can never
// escape the pipeline. stack is non-nil exactly when err is.
func invoke[In, Out any](ctx context.Context, fn func(context.Context, In) (Out, error), in In) (out Out, err error, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			stack = debug.Stack()
		}
	}()
	out, err = fn(ctx, in)
	if err != nil {
		stack = debug.Stack()
	}
	return out, err, stack
}
