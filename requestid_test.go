package jsonhttp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/jsonhttp"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg       []jsonhttp.RequestIDConfig
		reqHeader map[string]string
		checkID   func(t *testing.T, resp *http.Response)
	}{
		"generates X-Request-ID when none provided": {
			checkID: func(t *testing.T, resp *http.Response) {
				t.Helper()
				id := resp.Header.Get("X-Request-ID")
				assert.NotEmpty(t, id)
				assert.NoError(t, uuid.Validate(id))
			},
		},
		"preserves existing X-Request-ID": {
			reqHeader: map[string]string{
				"X-Request-ID": "my-custom-id-123",
			},
			checkID: func(t *testing.T, resp *http.Response) {
				t.Helper()
				assert.Equal(t, "my-custom-id-123", resp.Header.Get("X-Request-ID"))
			},
		},
		"custom header name": {
			cfg: []jsonhttp.RequestIDConfig{{
				Header: "X-Trace-ID",
			}},
			checkID: func(t *testing.T, resp *http.Response) {
				t.Helper()
				id := resp.Header.Get("X-Trace-ID")
				assert.NotEmpty(t, id)
				assert.NoError(t, uuid.Validate(id))
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mw := jsonhttp.RequestID(tc.cfg...)
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			srv := httptest.NewServer(handler)
			t.Cleanup(srv.Close)

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
			require.NoError(t, err)

			for k, v := range tc.reqHeader {
				req.Header.Set(k, v)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { require.NoError(t, resp.Body.Close()) }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			tc.checkID(t, resp)
		})
	}
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	var captured string

	mw := jsonhttp.RequestID()
	handler := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = jsonhttp.GetRequestID(r)
	}))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)

	req.Header.Set("X-Request-ID", "ctx-test-id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, "ctx-test-id", captured)
}

func TestGetRequestID_absent(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)

	assert.Empty(t, jsonhttp.GetRequestID(req))
}

func TestRequestID_custom_generator(t *testing.T) {
	t.Parallel()

	mw := jsonhttp.RequestID(jsonhttp.RequestIDConfig{
		Generator: func() string { return "fixed-id-42" },
	})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, "fixed-id-42", resp.Header.Get("X-Request-ID"))
}
