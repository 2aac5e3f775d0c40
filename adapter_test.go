package jsonhttp_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/jsonhttp"
	"github.com/bjaus/jsonhttp/jsonhttptest"
)

func TestAdapter_typed_success(t *testing.T) {
	t.Parallel()

	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.Post(search)))

	resp := jsonhttptest.Post[Query, Result](t, c, "/search", &Query{Term: "go", Limit: 1})

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json; charset=UTF-8", resp.Headers.Get("Content-Type"))
	assert.Equal(t, "Result", resp.Headers.Get("X-Content-Type-Name"))

	require.NotNil(t, resp.Body)
	assert.Equal(t, Result{Matches: []string{"go"}, Total: 1}, *resp.Body)
}

func TestAdapter_typed_no_content(t *testing.T) {
	t.Parallel()

	none := func(_ context.Context, _ *Query) (*Result, error) { return nil, nil }
	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.Post(none)))

	resp := jsonhttptest.Post[Query, Result](t, c, "/search", &Query{Term: "go"})

	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Nil(t, resp.Body)
}

func TestAdapter_gate_failure_has_empty_body(t *testing.T) {
	t.Parallel()

	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.Post(search)))

	resp := jsonhttptest.Send(t, c, http.MethodGet, "/search", "", nil)

	// The model's status message ("Expected POST got GET") exists only in
	// the model; net/http cannot transmit custom reason phrases.
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
	assert.Empty(t, resp.Body)
}

func TestAdapter_trace_body(t *testing.T) {
	t.Parallel()

	fail := func(_ context.Context, _ *Query) (*Result, error) {
		return nil, errors.New("Something went wrong!")
	}
	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.Post(fail)))

	resp := jsonhttptest.Send(t, c, http.MethodPost, "/search", `{"term":"go"}`, http.Header{
		"Content-Type": {"application/json"},
		"Accept":       {"application/json"},
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "text/plain", resp.Headers.Get("Content-Type"))
	assert.Contains(t, string(resp.Body), "Something went wrong!")
	assert.Contains(t, string(resp.Body), "goroutine")
}

func TestAdapter_untyped_gates(t *testing.T) {
	t.Parallel()

	echo := func(_ context.Context, v any) (any, error) { return v, nil }
	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.JSON(echo)))

	resp := jsonhttptest.Send(t, c, http.MethodPost, "/echo", "", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Empty(t, resp.Body)
}

func TestAdapter_untyped_success(t *testing.T) {
	t.Parallel()

	echo := func(_ context.Context, v any) (any, error) { return v, nil }
	stamped := jsonhttp.JSON(echo, jsonhttp.WithEntityTransform(func(e jsonhttp.Entity) jsonhttp.Entity {
		return e.WithHeader("X-Stamp", "echo")
	}))
	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(stamped))

	resp := jsonhttptest.Send(t, c, http.MethodPut, "/echo", `{"a":1}`, nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json; charset=UTF-8", resp.Headers.Get("Content-Type"))
	assert.Equal(t, "echo", resp.Headers.Get("X-Stamp"))
	assert.Equal(t, `{"a":1}`, string(resp.Body))
}

func TestAdapter_negotiation_failure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(jsonhttp.Post(search), jsonhttp.WithErrorLog(logger)))

	resp := jsonhttptest.Send(t, c, http.MethodPost, "/search", `{"term":"go"}`, http.Header{
		"Content-Type":   {"application/json"},
		"Accept":         {"application/json"},
		"Accept-Charset": {"bogus-charset"},
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, buf.String(), "charset negotiation failed")
	assert.Contains(t, buf.String(), "not acceptable")
}

func TestAdapter_custom_handler_entities(t *testing.T) {
	t.Parallel()

	h := jsonhttp.HandlerFunc(func(_ jsonhttp.Request, resp jsonhttp.Response) error {
		resp.SetStatus(jsonhttp.StatusOf(200))
		resp.AddEntity(jsonhttp.Entity{}.WithHeader("X-One", "1").WithBody([]byte("one")))
		resp.AddEntity(jsonhttp.Entity{}.WithHeader("X-Two", "2").WithBody([]byte("two")))
		return nil
	})
	c := jsonhttptest.NewClient(t, jsonhttp.Adapter(h))

	resp := jsonhttptest.Send(t, c, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "onetwo", string(resp.Body), "entity bodies play back in order")
	assert.Equal(t, "1", resp.Headers.Get("X-One"), "only the first entity's headers play back")
	assert.Empty(t, resp.Headers.Get("X-Two"))
}

func TestAdapter_nil_handler_panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { jsonhttp.Adapter(nil) })
}
