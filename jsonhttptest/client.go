package jsonhttptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Client wraps an httptest.Server for exercising a pipeline end-to-end
// through Adapter.
type Client struct {
	Server *httptest.Server
}

// NewClient starts a test server around h.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded typed response.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     *http.Response
}

// RawResponse holds an undecoded response, used when probing failure modes
// whose bodies are not JSON.
type RawResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Post sends a typed POST with a JSON body and the Content-Type and Accept
// headers the typed pipeline requires.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("jsonhttptest: marshal request body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.Server.URL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("jsonhttptest: create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("jsonhttptest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("jsonhttptest: close body: %v", closeErr)
		}
	}()

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     resp,
	}

	if resp.StatusCode != http.StatusNoContent && resp.ContentLength != 0 {
		var decoded Resp
		if decErr := json.NewDecoder(resp.Body).Decode(&decoded); decErr != nil && decErr != io.EOF {
			return result
		}
		result.Body = &decoded
	}

	return result
}

// Send sends method with a raw body and explicit headers, returning the
// undecoded response.
func Send(t testing.TB, c *Client, method, path, body string, header http.Header) *RawResponse {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("jsonhttptest: create request: %v", err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("jsonhttptest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("jsonhttptest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("jsonhttptest: read body: %v", err)
	}

	return &RawResponse{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    raw,
	}
}
