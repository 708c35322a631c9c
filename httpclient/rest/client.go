package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// Client is a JSON-focused REST client that wraps the base HTTP client.
// Requests carry Accept: application/json and JSON bodies.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client from cfg. JSON headers are added to the defaults.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.Headers = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// NewFromClient creates a REST client from an existing HTTP client.
func NewFromClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// RequestOption configures a single REST request.
type RequestOption func(*httpclient.RequestBuilder)

// WithQuery appends query parameters to the request url.
func WithQuery(params url.Values) RequestOption {
	return func(b *httpclient.RequestBuilder) { b.Query(params) }
}

// WithHeaders adds headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(b *httpclient.RequestBuilder) {
		for k, v := range headers {
			b.Header(k, v)
		}
	}
}

// WithCacheControl sets cache directives for the request.
func WithCacheControl(cc httpclient.CacheControl) RequestOption {
	return func(b *httpclient.RequestBuilder) { b.CacheControl(cc) }
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodDelete, path, nil, opts...)
}

// do executes a REST request and decodes the JSON response. An unsuccessful
// response whose body decodes as T is returned alongside the error.
func do[T any](ctx context.Context, c *Client, method httpclient.Method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	b := c.http.NewRequest(method, path)
	if body != nil {
		b.JSON(body)
	}
	for _, opt := range opts {
		opt(b)
	}

	resp, err := b.Send(ctx)
	if err != nil {
		if herr, ok := httpclient.AsError(err); ok && herr.Code == httpclient.ErrCodeHTTP {
			var data T
			if decoded, jsonErr := herr.Body.JSON(&data); decoded && jsonErr == nil {
				return &Response[T]{StatusCode: herr.StatusCode, Data: data}, err
			}
		}
		return nil, err
	}
	if resp == nil {
		return nil, ErrNoResponse
	}

	var data T
	if _, err := resp.JSON(&data); err != nil {
		return nil, fmt.Errorf("httpclient/rest: decode response: %w", err)
	}
	return &Response[T]{
		StatusCode: resp.Code(),
		Headers:    resp.Headers(),
		Data:       data,
	}, nil
}
