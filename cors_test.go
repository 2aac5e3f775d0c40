package jsonhttp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/jsonhttp"
)

func TestCORS_defaults(t *testing.T) {
	t.Parallel()

	called := false
	handler := jsonhttp.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}),
		jsonhttp.CORS(),
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.True(t, called)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Accept")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "Origin", resp.Header.Get("Vary"))
}

func TestCORS_preflight_short_circuits(t *testing.T) {
	t.Parallel()

	called := false
	handler := jsonhttp.Chain(
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}),
		jsonhttp.CORS(),
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, called)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_custom_config(t *testing.T) {
	t.Parallel()

	handler := jsonhttp.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		jsonhttp.CORS(jsonhttp.CORSConfig{
			AllowOrigins:     []string{"https://app.example.com"},
			AllowMethods:     []string{http.MethodPost},
			AllowHeaders:     []string{"Content-Type"},
			ExposeHeaders:    []string{"X-Content-Type-Name"},
			AllowCredentials: true,
			MaxAge:           600,
		}),
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Content-Type-Name", resp.Header.Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
}
