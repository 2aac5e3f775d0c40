package jsonhttp

import "context"

// Handler processes one HTTP exchange against the package's
// Request/Response model. Handle writes at most one status per request. A
// non-nil error reports a negotiation defect (the ErrNotAcceptable class)
// with nothing written; request-level failures are always answered on the
// Response itself.
type Handler interface {
	Handle(req Request, resp Response) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(req Request, resp Response) error

// Handle calls f.
func (f HandlerFunc) Handle(req Request, resp Response) error { return f(req, resp) }

// Func is the typed transformation signature. The pipeline owns
// serialization — handlers never see headers, statuses, or raw bodies. A
// nil output produces 204 No Content.
type Func[In, Out any] func(ctx context.Context, in *In) (*Out, error)

// JSONFunc is the untyped transformation signature: a parsed JSON value in,
// a JSON value out. A nil output produces 204 No Content.
type JSONFunc func(ctx context.Context, v any) (any, error)

// Option configures a pipeline constructor.
type Option func(*config)

type config struct {
	codec     Codec
	marshaler Marshaler
	transform func(Entity) Entity
}

func newConfig(opts []Option) config {
	cfg := config{
		codec:     DefaultCodec(),
		marshaler: DefaultMarshaler(),
		transform: func(e Entity) Entity { return e },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithCodec replaces the JSON text codec used to parse bodies and render
// responses.
func WithCodec(c Codec) Option {
	if c == nil {
		panic("jsonhttp: nil Codec")
	}
	return func(cfg *config) { cfg.codec = c }
}

// WithMarshaler replaces the typed marshal/unmarshal context used by Post.
func WithMarshaler(m Marshaler) Option {
	if m == nil {
		panic("jsonhttp: nil Marshaler")
	}
	return func(cfg *config) { cfg.marshaler = m }
}

// WithEntityTransform installs a post-processing step on the untyped
// pipeline: every success entity, including the empty 204 entity, passes
// through fn before it is attached, so callers can add response headers.
func WithEntityTransform(fn func(Entity) Entity) Option {
	if fn == nil {
		panic("jsonhttp: nil entity transform")
	}
	return func(cfg *config) { cfg.transform = fn }
}
