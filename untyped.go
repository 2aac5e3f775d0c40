package jsonhttp

import (
	"net/http"
	"runtime/debug"
)

// JSON adapts an untyped transformation into a Handler. Any method is
// accepted; the body must be a non-empty JSON document, which is parsed
// and handed to fn as a generic value. A non-nil result is rendered back
// as application/json in the negotiated charset; a nil result produces 204
// No Content. Either way the success entity passes through the transform
// installed by WithEntityTransform before it is attached.
func JSON(fn JSONFunc, opts ...Option) Handler {
	if fn == nil {
		panic("jsonhttp: nil JSONFunc")
	}
	cfg := newConfig(opts)

	return HandlerFunc(func(req Request, resp Response) error {
		x := &exchange{req: req, resp: resp, entityOnError: true}

		body, ok := x.bodyText()
		if !ok {
			return nil
		}

		input, err := cfg.codec.Parse(body)
		if err != nil {
			// The parser's message goes out verbatim, with an empty entity.
			x.fail(StatusOf(http.StatusBadRequest).WithMessage(err.Error()))
			return nil
		}

		output, err, stack := invoke(req.Context(), fn, input)
		if err != nil {
			x.serverError(err, stack)
			return nil
		}

		status := StatusOf(http.StatusNoContent)
		entity := Entity{}
		if output != nil {
			cs, err := x.charset()
			if err != nil {
				return err
			}
			text, err := cfg.codec.Render(output)
			if err != nil {
				x.serverError(err, debug.Stack())
				return nil
			}
			entity, err = Entity{}.
				WithHeader(HeaderContentType, jsonContentType(cs)).
				WithText(text, cs)
			if err != nil {
				return err
			}
			entity = entity.WithContentLength()
			status = StatusOf(http.StatusOK)
		}

		entity = cfg.transform(entity)
		resp.SetStatus(status)
		resp.AddEntity(entity)
		return nil
	})
}
