package httpclient

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ssj4429108/OkRequest/logger"
)

// Client builds requests, runs them through the interceptor chains and
// dispatches them on a Transport. A Client is safe for concurrent use.
type Client struct {
	cfg                  Config
	transport            Transport
	log                  *logger.Logger
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	mu       sync.Mutex
	inFlight map[string]*inflight
}

// inflight is the registry entry for a dispatched request.
type inflight struct {
	treq      *TransportRequest
	cancel    context.CancelCauseFunc
	cancelled atomic.Bool
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport            Transport
	middlewares          []TransportMiddleware
	log                  *logger.Logger
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// WithTransport sets the transport engine. It is required.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithMiddleware wraps the transport. The first middleware is outermost.
func WithMiddleware(middlewares ...TransportMiddleware) Option {
	return func(o *clientOptions) { o.middlewares = append(o.middlewares, middlewares...) }
}

// WithLogger sets the client logger. Defaults to the "httpclient" logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithRequestInterceptor appends request interceptors after those in Config.
func WithRequestInterceptor(interceptors ...RequestInterceptor) Option {
	return func(o *clientOptions) { o.requestInterceptors = append(o.requestInterceptors, interceptors...) }
}

// WithResponseInterceptor appends response interceptors after those in Config.
func WithResponseInterceptor(interceptors ...ResponseInterceptor) Option {
	return func(o *clientOptions) { o.responseInterceptors = append(o.responseInterceptors, interceptors...) }
}

// New creates a client from cfg. Defaults are applied before validation.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		return nil, NewValidationError("transport is required")
	}
	if o.log == nil {
		o.log = logger.Get("httpclient")
	}

	var middlewares []TransportMiddleware
	if cfg.EnableCurlLog {
		middlewares = append(middlewares, WithCurlLogging(o.log))
	}
	middlewares = append(middlewares, o.middlewares...)
	if cfg.RateLimit != nil {
		middlewares = append(middlewares, WithRateLimit(cfg.RateLimit.Limiter()))
	}

	c := &Client{
		cfg:       cfg,
		transport: Chain(middlewares...)(o.transport),
		log:       o.log,
		inFlight:  make(map[string]*inflight),
	}
	if cfg.Auth != nil && cfg.Auth.Type != AuthNone {
		c.requestInterceptors = append(c.requestInterceptors, cfg.Auth.Interceptor())
	}
	c.requestInterceptors = append(c.requestInterceptors, cfg.RequestInterceptors...)
	c.requestInterceptors = append(c.requestInterceptors, o.requestInterceptors...)
	c.responseInterceptors = append(c.responseInterceptors, cfg.ResponseInterceptors...)
	c.responseInterceptors = append(c.responseInterceptors, o.responseInterceptors...)
	return c, nil
}

// Config returns the effective client configuration.
func (c *Client) Config() Config { return c.cfg }

// NewRequest returns a builder for method and u, resolved against BaseURL.
func (c *Client) NewRequest(method Method, u string) *RequestBuilder {
	return NewRequestBuilder(c).Method(method).URL(c.resolveURL(u))
}

// Get returns a GET request builder.
func (c *Client) Get(u string) *RequestBuilder { return c.NewRequest(MethodGet, u) }

// Post returns a POST request builder.
func (c *Client) Post(u string) *RequestBuilder { return c.NewRequest(MethodPost, u) }

// Put returns a PUT request builder.
func (c *Client) Put(u string) *RequestBuilder { return c.NewRequest(MethodPut, u) }

// Patch returns a PATCH request builder.
func (c *Client) Patch(u string) *RequestBuilder { return c.NewRequest(MethodPatch, u) }

// Delete returns a DELETE request builder.
func (c *Client) Delete(u string) *RequestBuilder { return c.NewRequest(MethodDelete, u) }

// Head returns a HEAD request builder.
func (c *Client) Head(u string) *RequestBuilder { return c.NewRequest(MethodHead, u) }

// Options returns an OPTIONS request builder.
func (c *Client) Options(u string) *RequestBuilder { return c.NewRequest(MethodOptions, u) }

// resolveURL joins u onto BaseURL unless u is already absolute.
func (c *Client) resolveURL(u string) string {
	if c.cfg.BaseURL == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

// Execute sends req and returns the final response.
//
// A transport that produces no result yields (nil, nil) after the response
// interceptors have run. An unsuccessful response fails with an ErrCodeHTTP
// error carrying the status code and body. A request cancelled while in
// flight, by ctx or by Cancel, fails with an ErrCodeAborted error.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewValidationError("request is nil")
	}
	id := req.ID()
	final, err := runRequestInterceptors(c.requestInterceptors, req)
	if err != nil {
		return nil, err
	}
	treq, err := c.transportRequest(ctx, final, id, false)
	if err != nil {
		return nil, err
	}

	ctx, entry := c.track(ctx, treq)
	defer c.untrack(id, entry)

	c.log.Debug("dispatching request", dispatchFields(treq))
	tresp, err := c.transport.Send(ctx, treq)
	if err != nil {
		return nil, c.failure(ctx, entry, final, err)
	}

	var resp *Response
	if tresp != nil {
		resp = newResponse(tresp, final)
		if !resp.Successfully() {
			herr := NewHTTPError(final, resp.Code(), resp.Message(), resp.Body())
			c.log.Warn("request unsuccessful", logger.MergeWithError(dispatchFields(treq), herr))
			return nil, herr
		}
	}
	return runResponseInterceptors(c.responseInterceptors, resp)
}

// Stream opens an event stream for req. Events are delivered on the
// returned Stream until the transport completes, the stream fails or it is
// cancelled.
func (c *Client) Stream(ctx context.Context, req *Request) (*Stream, error) {
	if req == nil {
		return nil, NewValidationError("request is nil")
	}
	id := req.ID()
	final, err := runRequestInterceptors(c.requestInterceptors, req)
	if err != nil {
		return nil, err
	}
	treq, err := c.transportRequest(ctx, final, id, true)
	if err != nil {
		return nil, err
	}

	ctx, entry := c.track(ctx, treq)
	s := newStream(ctx, c, final, entry)

	c.log.Debug("opening stream", dispatchFields(treq))
	go func() {
		err := c.transport.SendStreaming(ctx, treq, s.deliver)
		if err != nil {
			err = c.failure(ctx, entry, final, err)
		}
		c.untrack(id, entry)
		s.finish(err)
	}()
	return s, nil
}

// Listen opens an event stream for req and calls fn for each event until
// the stream ends. An error from fn cancels the stream and is returned.
func (c *Client) Listen(ctx context.Context, req *Request, fn func(Event) error) error {
	s, err := c.Stream(ctx, req)
	if err != nil {
		return err
	}
	for ev := range s.Events() {
		if err := fn(ev); err != nil {
			s.Cancel()
			_ = s.Wait()
			return err
		}
	}
	return s.Wait()
}

// Cancel aborts req if it is in flight. Untracked requests are ignored.
func (c *Client) Cancel(req *Request) {
	if req == nil {
		return
	}
	c.mu.Lock()
	entry, ok := c.inFlight[req.ID()]
	c.mu.Unlock()
	if !ok {
		return
	}
	c.cancelEntry(entry)
}

// CancelAll aborts every in-flight request.
func (c *Client) CancelAll() {
	c.mu.Lock()
	entries := make([]*inflight, 0, len(c.inFlight))
	for _, e := range c.inFlight {
		entries = append(entries, e)
	}
	c.mu.Unlock()
	for _, e := range entries {
		c.cancelEntry(e)
	}
}

// InFlight returns the number of tracked in-flight requests.
func (c *Client) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight)
}

func (c *Client) cancelEntry(e *inflight) {
	if !e.cancelled.CompareAndSwap(false, true) {
		return
	}
	c.log.Debug("cancelling request", logger.Fields(logger.FieldRequestID, e.treq.ID))
	e.cancel(ErrAborted)
	c.transport.Cancel(e.treq)
}

func (c *Client) track(ctx context.Context, treq *TransportRequest) (context.Context, *inflight) {
	ctx, cancel := context.WithCancelCause(ctx)
	entry := &inflight{treq: treq, cancel: cancel}
	c.mu.Lock()
	c.inFlight[treq.ID] = entry
	c.mu.Unlock()
	return ctx, entry
}

// untrack removes the entry unless a newer dispatch of the same request
// replaced it.
func (c *Client) untrack(id string, entry *inflight) {
	c.mu.Lock()
	if c.inFlight[id] == entry {
		delete(c.inFlight, id)
	}
	c.mu.Unlock()
	entry.cancel(nil)
}

// failure classifies a transport error as aborted or transport.
func (c *Client) failure(ctx context.Context, entry *inflight, req *Request, err error) error {
	if entry.cancelled.Load() || ctx.Err() != nil {
		c.log.Debug("request aborted", logger.Fields(logger.FieldRequestID, entry.treq.ID))
		return NewAbortedError(req, err)
	}
	c.log.Warn("request failed", logger.MergeWithError(dispatchFields(entry.treq), err))
	return NewTransportError(req, err)
}

// transportRequest serializes req for the transport. id is the identity the
// caller holds, used as the cancellation key.
func (c *Client) transportRequest(ctx context.Context, req *Request, id string, eventSource bool) (*TransportRequest, error) {
	headers := req.Headers()
	if len(c.cfg.Headers) > 0 {
		names := make([]string, 0, len(c.cfg.Headers))
		for name := range c.cfg.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			headers.add(name, c.cfg.Headers[name])
		}
	}
	cache := req.CacheControl()
	if cache == nil {
		cache = c.cfg.Cache
	}
	if !cache.IsZero() {
		headers.add("Cache-Control", cache.String())
	}
	if eventSource {
		headers.add("Accept", "text/event-stream")
	}

	var body []byte
	if rb := req.Body(); rb != nil {
		data, err := rb.Bytes(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, NewAbortedError(req, err)
			}
			return nil, err
		}
		body = data
	}

	mediaType := req.MediaType()
	if mediaType == "" {
		mediaType = MediaTypeJSON
	}
	return &TransportRequest{
		ID:          id,
		URL:         c.resolveURL(req.URL()),
		Method:      req.Method().String(),
		Headers:     headers,
		MediaType:   mediaType,
		Body:        body,
		Protocol:    req.Protocol(),
		EventSource: eventSource,
	}, nil
}

func dispatchFields(treq *TransportRequest) map[string]any {
	return logger.Fields(
		logger.FieldRequestID, treq.ID,
		logger.FieldMethod, treq.Method,
		logger.FieldURL, treq.URL,
	)
}
