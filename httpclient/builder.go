package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// RequestBuilder accumulates the fields of a Request.
//
// Headers are unique by name: the first value set for a name wins and later
// calls for the same name are ignored. Errors from body encoding are kept and
// returned by Build and Send.
type RequestBuilder struct {
	client    *Client
	rawURL    string
	method    Method
	headers   Headers
	mediaType string
	body      RequestBody
	protocol  Protocol
	cache     *CacheControl
	err       error
}

// NewRequestBuilder creates a builder bound to client. A nil client builds
// requests normally but cannot Send them.
func NewRequestBuilder(client *Client) *RequestBuilder {
	return &RequestBuilder{client: client}
}

// URL sets the request url as given.
func (b *RequestBuilder) URL(rawURL string) *RequestBuilder {
	b.rawURL = rawURL
	return b
}

// Method sets the request method.
func (b *RequestBuilder) Method(m Method) *RequestBuilder {
	b.method = m
	return b
}

// Header adds a header unless one with the same name is already set.
func (b *RequestBuilder) Header(name, value string) *RequestBuilder {
	if name == "" {
		b.setErr(NewValidationError("header name is empty"))
		return b
	}
	b.headers.add(name, value)
	return b
}

// BearerAuth sets "Authorization: Bearer <token>".
func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	return b.Header("Authorization", "Bearer "+token)
}

// BasicAuth sets HTTP Basic credentials.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	return b.Header("Authorization", "Basic "+basicCredentials(username, password))
}

// Query appends url-encoded values to the url, joined with '?' or '&'.
func (b *RequestBuilder) Query(values url.Values) *RequestBuilder {
	if len(values) == 0 {
		return b
	}
	sep := "?"
	if strings.Contains(b.rawURL, "?") {
		sep = "&"
	}
	b.rawURL += sep + urlencode(values)
	return b
}

// Form sets an application/x-www-form-urlencoded body.
func (b *RequestBuilder) Form(values url.Values) *RequestBuilder {
	b.Header("Content-Type", MediaTypeForm)
	b.mediaType = MediaTypeForm
	b.body = NewTextBody(urlencode(values), MediaTypeForm)
	return b
}

// urlencode joins values as key=value pairs with encodeURIComponent escaping.
// Keys are sorted; repeated values keep their order.
func urlencode(values url.Values) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(values)) {
		key := encodeURIComponent(k)
		for _, v := range values[k] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(key)
			sb.WriteByte('=')
			sb.WriteString(encodeURIComponent(v))
		}
	}
	return sb.String()
}

// JSON sets a JSON body encoding v.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.setErr(NewValidationError(fmt.Sprintf("encode json body: %v", err)))
		return b
	}
	b.Header("Content-Type", MediaTypeJSON)
	b.mediaType = MediaTypeJSON
	b.body = NewTextBody(string(data), MediaTypeJSON)
	return b
}

// File sets a file body.
func (b *RequestBuilder) File(body *FileBody) *RequestBuilder {
	if body == nil {
		b.setErr(NewValidationError("file body is nil"))
		return b
	}
	return b.Data(body, body.ContentType())
}

// Multipart sets a multipart body.
func (b *RequestBuilder) Multipart(body *MultipartBody) *RequestBuilder {
	if body == nil {
		b.setErr(NewValidationError("multipart body is nil"))
		return b
	}
	return b.Data(body, body.ContentType())
}

// Data sets an arbitrary body with the given Content-Type.
func (b *RequestBuilder) Data(body RequestBody, contentType string) *RequestBuilder {
	if contentType != "" {
		b.Header("Content-Type", contentType)
	}
	b.body = body
	return b
}

// MediaType sets the media type passed to the transport.
func (b *RequestBuilder) MediaType(mediaType string) *RequestBuilder {
	b.mediaType = mediaType
	return b
}

// Protocol sets a per-request protocol preference.
func (b *RequestBuilder) Protocol(p Protocol) *RequestBuilder {
	b.protocol = p
	return b
}

// CacheControl sets per-request cache directives.
func (b *RequestBuilder) CacheControl(cc CacheControl) *RequestBuilder {
	b.cache = &cc
	return b
}

// Err returns the first error recorded by the builder.
func (b *RequestBuilder) Err() error { return b.err }

// Build returns a new Request with a fresh identity. The builder stays usable.
func (b *RequestBuilder) Build() (*Request, error) {
	return b.buildWithID(uuid.New().String())
}

func (b *RequestBuilder) buildWithID(id string) (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.rawURL == "" {
		return nil, NewValidationError("request url is empty")
	}
	var cache *CacheControl
	if b.cache != nil {
		cc := *b.cache
		cache = &cc
	}
	return &Request{
		id:        id,
		url:       b.rawURL,
		method:    b.method,
		headers:   b.headers.Clone(),
		mediaType: b.mediaType,
		body:      b.body,
		protocol:  b.protocol,
		cache:     cache,
		client:    b.client,
	}, nil
}

// Send builds the request and executes it on the bound client.
func (b *RequestBuilder) Send(ctx context.Context) (*Response, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	if b.client == nil {
		return nil, NewValidationError("request builder has no client")
	}
	return b.client.Execute(ctx, req)
}

// Stream builds the request and opens an event stream on the bound client.
func (b *RequestBuilder) Stream(ctx context.Context) (*Stream, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	if b.client == nil {
		return nil, NewValidationError("request builder has no client")
	}
	return b.client.Stream(ctx, req)
}

func (b *RequestBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
