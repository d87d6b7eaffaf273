// Package testutil provides helpers for testing HTTP handlers.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequestBuilder constructs test requests with a fluent API.
type RequestBuilder struct {
	method  string
	path    string
	headers http.Header
	query   url.Values
}

// NewRequest returns a builder for GET /.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodGet,
		path:    "/",
		headers: make(http.Header),
		query:   make(url.Values),
	}
}

// GET sets the method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	b.method = http.MethodGet
	b.path = path
	return b
}

// OPTIONS sets the method to OPTIONS.
func (b *RequestBuilder) OPTIONS(path string) *RequestBuilder {
	b.method = http.MethodOptions
	b.path = path
	return b
}

// WithHeader adds a header.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers.Add(key, value)
	return b
}

// WithQuery adds a query parameter.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Build creates the request and a recorder for its response.
func (b *RequestBuilder) Build() (*http.Request, *httptest.ResponseRecorder) {
	target := b.path
	if len(b.query) > 0 {
		target += "?" + b.query.Encode()
	}
	req := httptest.NewRequest(b.method, target, nil)
	for k, vs := range b.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, httptest.NewRecorder()
}

// Serve builds the request and runs it through h.
func (b *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	req, w := b.Build()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}

// AssertJSONResponse compares the response body with expected as JSON,
// ignoring formatting.
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expected any) {
	t.Helper()
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	want, err := json.Marshal(expected)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), w.Body.String())
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AssertJSONError decodes an error envelope and checks its code.
func AssertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) *ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	DecodeJSON(t, w, &resp)
	assert.Equal(t, expectedCode, resp.Code, "message: %s", resp.Message)
	return &resp
}

// AssertHeader checks a response header.
func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, expected string) {
	t.Helper()
	assert.Equal(t, expected, w.Header().Get(key), "header %s", key)
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	body := w.Body.String()
	require.NoError(t, json.NewDecoder(strings.NewReader(body)).Decode(v), "body: %s", body)
}
