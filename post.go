package jsonhttp

import (
	"net/http"
	"reflect"
	"runtime/debug"
)

// Post adapts a typed transformation into a Handler enforcing the strict
// POST contract: method POST, Content-Type application/json, a valid
// non-empty body with a matching Content-Length, and an Accept header
// compatible with application/json. The body is parsed and unmarshalled
// into In; a non-nil output is marshalled back and the response is tagged
// with X-Content-Type-Name naming the output's runtime type. A nil output
// produces 204 No Content.
func Post[In, Out any](fn Func[In, Out], opts ...Option) Handler {
	if fn == nil {
		panic("jsonhttp: nil Func")
	}
	cfg := newConfig(opts)

	return HandlerFunc(func(req Request, resp Response) error {
		resp.SetProto(req.Proto())

		x := &exchange{req: req, resp: resp}

		if method := req.Method(); method != http.MethodPost {
			x.fail(StatusOf(http.StatusMethodNotAllowed).WithMessage("Expected POST got " + method))
			return nil
		}
		if !x.contentTypeJSON() {
			return nil
		}

		body, ok := x.bodyText()
		if !ok {
			return nil
		}

		input := new(In)
		node, err := cfg.codec.Parse(body)
		if err == nil {
			err = cfg.marshaler.Unmarshal(node, input)
		}
		if err != nil {
			x.failCause(
				StatusOf(http.StatusBadRequest).WithMessage("Invalid "+qualifiedName[In]()+": "+err.Error()),
				err,
				debug.Stack(),
			)
			return nil
		}

		if !x.acceptJSON() {
			return nil
		}

		output, err, stack := invoke(req.Context(), fn, input)
		if err != nil {
			x.serverError(err, stack)
			return nil
		}

		method := req.Method()
		if output == nil {
			resp.SetStatus(successStatus(http.StatusNoContent, method, simpleName[Out]()))
			return nil
		}

		node, err = cfg.marshaler.Marshal(*output)
		if err != nil {
			x.serverError(err, debug.Stack())
			return nil
		}
		text, err := cfg.codec.Render(node)
		if err != nil {
			x.serverError(err, debug.Stack())
			return nil
		}
		cs, err := x.charset()
		if err != nil {
			return err
		}

		name := runtimeName(*output)
		if name == "" {
			name = simpleName[Out]()
		}
		entity, err := Entity{}.
			WithHeader(HeaderContentType, jsonContentType(cs)).
			WithHeader(XContentTypeName, name).
			WithText(text, cs)
		if err != nil {
			return err
		}

		resp.SetStatus(successStatus(http.StatusOK, method, name))
		resp.AddEntity(entity.WithContentLength())
		return nil
	})
}

// contentTypeJSON enforces the Content-Type gate.
func (x *exchange) contentTypeJSON() bool {
	raw, ok := x.req.Header(HeaderContentType)
	if !ok {
		x.badRequest("Missing " + HeaderContentType)
		return false
	}
	if mt, err := ParseMediaType(raw); err != nil || !mt.Is(ContentTypeJSON) {
		x.badRequest("Header " + HeaderContentType + " expected " + ContentTypeJSON + " got " + raw)
		return false
	}
	return true
}

// acceptJSON enforces the Accept gate.
func (x *exchange) acceptJSON() bool {
	raw, ok := x.req.Header(HeaderAccept)
	if !ok {
		x.badRequest("Missing " + HeaderAccept)
		return false
	}
	if !ParseAccept(raw).Test(ContentTypeJSON) {
		x.badRequest("Header " + HeaderAccept + " expected " + ContentTypeJSON + " got " + raw)
		return false
	}
	return true
}

// successStatus builds the typed success status line, e.g. "POST Query OK".
func successStatus(code int, method, typeName string) Status {
	s := StatusOf(code)
	return s.WithMessage(method + " " + typeName + " " + s.Message)
}

// qualifiedName returns the package-qualified name of T, e.g. "app.Query".
func qualifiedName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// simpleName returns the bare declared type name of T.
func simpleName[T any]() string {
	return typeNameOf(reflect.TypeOf((*T)(nil)).Elem())
}

// runtimeName returns the bare runtime type name of v, empty when v is a
// nil interface.
func runtimeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	return typeNameOf(t)
}

func typeNameOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
