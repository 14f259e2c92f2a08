package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Verb entry points. Each one is pure construction: it encodes the body,
// picks the verb's default content type, and delegates to Do. None of them
// inspect the result.

const (
	contentTypeJSON        = "application/json"
	contentTypeOctetStream = "application/octet-stream"
	contentTypeForm        = "application/x-www-form-urlencoded"
)

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, target string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodGet, target, nil, "", opts))
}

// Post performs a body-less POST request.
func (c *Client) Post(ctx context.Context, target string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodPost, target, nil, "", opts))
}

// PostForm performs a POST request with a URL-encoded form body.
func (c *Client) PostForm(ctx context.Context, target string, form url.Values, opts ...RequestOption) (*Response, error) {
	body := strings.NewReader(form.Encode())
	return c.Do(ctx, newRequest(http.MethodPost, target, body, contentTypeForm, opts))
}

// PostJSON performs a POST request whose body is the UTF-8 encoding of the
// supplied JSON string. Content-Type is application/json exactly, and
// Accept: application/json is added unless the caller overrides it.
func (c *Client) PostJSON(ctx context.Context, target string, body string, opts ...RequestOption) (*Response, error) {
	opts = append([]RequestOption{WithHeader("Accept", contentTypeJSON)}, opts...)
	return c.Do(ctx, newRequest(http.MethodPost, target, bytes.NewReader([]byte(body)), contentTypeJSON, opts))
}

// PostBytes performs a POST request with a raw byte payload.
func (c *Client) PostBytes(ctx context.Context, target string, body []byte, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodPost, target, bytes.NewReader(body), contentTypeOctetStream, opts))
}

// PostMultipart performs a POST request with a multipart form body. The
// content type, including the generated boundary, comes from the form
// builder.
func (c *Client) PostMultipart(ctx context.Context, target string, form *MultipartBody, opts ...RequestOption) (*Response, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, newRequest(http.MethodPost, target, body, contentType, opts))
}

// PutJSON performs a PUT request with a JSON string body.
func (c *Client) PutJSON(ctx context.Context, target string, body string, opts ...RequestOption) (*Response, error) {
	opts = append([]RequestOption{WithHeader("Accept", contentTypeJSON)}, opts...)
	return c.Do(ctx, newRequest(http.MethodPut, target, bytes.NewReader([]byte(body)), contentTypeJSON, opts))
}

// PutBytes performs a PUT request with a raw byte payload.
func (c *Client) PutBytes(ctx context.Context, target string, body []byte, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodPut, target, bytes.NewReader(body), contentTypeOctetStream, opts))
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, target string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodDelete, target, nil, "", opts))
}
