package nethttp

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/ssj4429108/OkRequest/httpclient"
	"github.com/ssj4429108/OkRequest/httpclient/sse"
	"github.com/ssj4429108/OkRequest/logger"
)

// maxErrorBody bounds how much of an unsuccessful stream response is read.
const maxErrorBody = 64 << 10

// StatusError is returned by SendStreaming when the server answers with a
// non-2xx status instead of opening the stream.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stream rejected with HTTP %d", e.Code)
}

// Engine implements httpclient.Transport on net/http.
type Engine struct {
	cfg  httpclient.Config
	log  *logger.Logger
	rts  map[httpclient.Protocol]http.RoundTripper
	base http.RoundTripper

	mu      sync.Mutex
	cancels map[string]*exchange
}

var _ httpclient.Transport = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine from cfg.
func New(cfg httpclient.Config, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HasProtocol(httpclient.ProtocolH2PriorKnowledge) && len(cfg.Protocols) > 1 {
		return nil, httpclient.NewValidationError("protocol h2_prior_knowledge cannot be combined with other protocols")
	}

	var tlsCfg *tls.Config
	if cfg.TLS != nil {
		built, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		tlsCfg = built
	}

	h1 := newHTTP1Transport(cfg, tlsCfg)
	h2, err := newHTTP2Transport(cfg, tlsCfg)
	if err != nil {
		return nil, err
	}
	h2c := newH2CTransport(cfg)

	e := &Engine{
		cfg: cfg,
		log: logger.Get("nethttp"),
		rts: map[httpclient.Protocol]http.RoundTripper{
			httpclient.ProtocolHTTP10:           h1,
			httpclient.ProtocolHTTP11:           h1,
			httpclient.ProtocolHTTP2:            h2,
			httpclient.ProtocolH2PriorKnowledge: h2c,
		},
		cancels: make(map[string]*exchange),
	}
	switch {
	case cfg.HasProtocol(httpclient.ProtocolH2PriorKnowledge):
		e.base = h2c
	case len(cfg.Protocols) > 0 && !cfg.HasProtocol(httpclient.ProtocolHTTP2):
		e.base = h1
	default:
		e.base = h2
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewClient creates an httpclient.Client backed by a new engine.
func NewClient(cfg httpclient.Config, opts ...httpclient.Option) (*httpclient.Client, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return httpclient.New(cfg, append([]httpclient.Option{httpclient.WithTransport(e)}, opts...)...)
}

func newDialer(cfg httpclient.Config) *net.Dialer {
	return &net.Dialer{Timeout: cfg.Timeout, KeepAlive: 30 * time.Second}
}

func proxyFunc(cfg httpclient.Config) func(*http.Request) (*url.URL, error) {
	if cfg.NoProxy {
		return nil
	}
	return http.ProxyFromEnvironment
}

func baseTransport(cfg httpclient.Config, tlsCfg *tls.Config) *http.Transport {
	return &http.Transport{
		Proxy:                 proxyFunc(cfg),
		DialContext:           newDialer(cfg).DialContext,
		TLSClientConfig:       tlsCfg.Clone(),
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxConnsPerHost:       cfg.MaxConnections,
		MaxIdleConnsPerHost:   cfg.MaxConnections,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// newHTTP1Transport never negotiates HTTP/2.
func newHTTP1Transport(cfg httpclient.Config, tlsCfg *tls.Config) *http.Transport {
	t := baseTransport(cfg, tlsCfg)
	t.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	return t
}

// newHTTP2Transport negotiates HTTP/2 over TLS and falls back to HTTP/1.1.
func newHTTP2Transport(cfg httpclient.Config, tlsCfg *tls.Config) (*http.Transport, error) {
	t := baseTransport(cfg, tlsCfg)
	if err := http2.ConfigureTransport(t); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}
	return t, nil
}

// newH2CTransport speaks HTTP/2 over cleartext TCP without an upgrade.
func newH2CTransport(cfg httpclient.Config) *http2.Transport {
	dialer := newDialer(cfg)
	return &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}
}

// Send performs a single round trip and reads the full body.
func (e *Engine) Send(ctx context.Context, req *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
	ctx, done := e.register(ctx, req.ID)
	defer done()

	resp, err := e.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return toTransportResponse(resp, body), nil
}

// SendStreaming delivers the response body as events. text/event-stream
// bodies are parsed as server-sent events; any other body yields one event
// per non-empty line.
func (e *Engine) SendStreaming(ctx context.Context, req *httpclient.TransportRequest, onEvent func(httpclient.Event, error)) error {
	ctx, done := e.register(ctx, req.ID)
	defer done()

	resp, err := e.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: body}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		return readEvents(ctx, sse.NewReader(resp.Body), onEvent)
	}
	return readLines(ctx, resp.Body, onEvent)
}

func readEvents(ctx context.Context, r sse.Reader, onEvent func(httpclient.Event, error)) error {
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		onEvent(*ev, nil)
	}
}

func readLines(ctx context.Context, body io.Reader, onEvent func(httpclient.Event, error)) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			onEvent(httpclient.Event{Data: line}, nil)
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Cancel aborts the in-flight exchange for req, if any.
func (e *Engine) Cancel(req *httpclient.TransportRequest) {
	e.mu.Lock()
	x, ok := e.cancels[req.ID]
	e.mu.Unlock()
	if !ok {
		return
	}
	e.log.Debug("cancelling exchange", logger.Fields(logger.FieldRequestID, req.ID))
	x.cancel()
}

// CloseIdleConnections closes idle connections on every round tripper.
func (e *Engine) CloseIdleConnections() {
	seen := make(map[http.RoundTripper]bool)
	for _, rt := range e.rts {
		if seen[rt] {
			continue
		}
		seen[rt] = true
		if c, ok := rt.(interface{ CloseIdleConnections() }); ok {
			c.CloseIdleConnections()
		}
	}
}

// exchange is the cancel handle of one dispatch. A request dispatched twice
// at once is cancellable by the latest dispatch only.
type exchange struct {
	cancel context.CancelFunc
}

func (e *Engine) register(ctx context.Context, id string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	x := &exchange{cancel: cancel}
	e.mu.Lock()
	e.cancels[id] = x
	e.mu.Unlock()
	return ctx, func() {
		e.mu.Lock()
		if e.cancels[id] == x {
			delete(e.cancels, id)
		}
		e.mu.Unlock()
		cancel()
	}
}

func (e *Engine) roundTrip(ctx context.Context, req *httpclient.TransportRequest) (*http.Response, error) {
	httpReq, err := newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	rt := e.base
	if req.Protocol != "" {
		if picked, ok := e.rts[req.Protocol]; ok {
			rt = picked
		}
	}
	return rt.RoundTrip(httpReq)
}

func newHTTPRequest(ctx context.Context, req *httpclient.TransportRequest) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, httpclient.NewValidationError(fmt.Sprintf("create request: %v", err))
	}
	for _, h := range req.Headers {
		if strings.EqualFold(h.Name, "Host") {
			httpReq.Host = h.Value
			continue
		}
		httpReq.Header.Set(h.Name, h.Value)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && req.MediaType != "" {
		httpReq.Header.Set("Content-Type", req.MediaType)
	}
	return httpReq, nil
}

func toTransportResponse(resp *http.Response, body []byte) *httpclient.TransportResponse {
	out := &httpclient.TransportResponse{
		Code:     resp.StatusCode,
		Message:  strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		Success:  resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Protocol: protocolName(resp),
		Headers:  flattenHeaders(resp.Header),
	}
	if len(body) > 0 {
		out.Body = &httpclient.TransportBody{
			Data:          body,
			ContentType:   resp.Header.Get("Content-Type"),
			ContentLength: resp.ContentLength,
		}
	}
	return out
}

func protocolName(resp *http.Response) string {
	switch resp.ProtoMajor {
	case 2:
		return string(httpclient.ProtocolHTTP2)
	case 1:
		if resp.ProtoMinor == 0 {
			return string(httpclient.ProtocolHTTP10)
		}
		return string(httpclient.ProtocolHTTP11)
	default:
		return strings.ToLower(resp.Proto)
	}
}

// flattenHeaders joins multi-value headers with ", ".
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		result[k] = strings.Join(v, ", ")
	}
	return result
}
