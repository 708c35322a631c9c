package httpclient

// Request is an immutable outbound request. Create one with
// RequestBuilder.Build; derive a modified copy with NewBuilder.
type Request struct {
	id        string
	url       string
	method    Method
	headers   Headers
	mediaType string
	body      RequestBody
	protocol  Protocol
	cache     *CacheControl
	client    *Client
}

// ID returns the request identity, unique per Build call.
func (r *Request) ID() string { return r.id }

// URL returns the effective url.
func (r *Request) URL() string { return r.url }

// Method returns the request method. An unset method reads as GET.
func (r *Request) Method() Method {
	if r.method == "" {
		return MethodGet
	}
	return r.method
}

// Headers returns a copy of the request headers in insertion order.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Header returns the named header value.
func (r *Request) Header(name string) (string, bool) { return r.headers.Get(name) }

// MediaType returns the declared media type, or "".
func (r *Request) MediaType() string { return r.mediaType }

// Body returns the request body, or nil.
func (r *Request) Body() RequestBody { return r.body }

// Protocol returns the per-request protocol preference, or "".
func (r *Request) Protocol() Protocol { return r.protocol }

// CacheControl returns a copy of the per-request cache directives, or nil.
func (r *Request) CacheControl() *CacheControl {
	if r.cache == nil {
		return nil
	}
	cc := *r.cache
	return &cc
}

// NewBuilder returns a builder holding every field of r except its identity.
func (r *Request) NewBuilder() *RequestBuilder {
	return &RequestBuilder{
		client:    r.client,
		rawURL:    r.url,
		method:    r.method,
		headers:   r.headers.Clone(),
		mediaType: r.mediaType,
		body:      r.body,
		protocol:  r.protocol,
		cache:     r.CacheControl(),
	}
}
