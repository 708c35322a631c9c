package httpclienttest

import (
	"context"
	"sync"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// SendFunc produces the result of a Send.
type SendFunc func(ctx context.Context, req *httpclient.TransportRequest) (*httpclient.TransportResponse, error)

// StreamFunc drives a SendStreaming call. emit forwards to the client's
// callback.
type StreamFunc func(ctx context.Context, req *httpclient.TransportRequest, emit func(httpclient.Event, error)) error

// Transport is a scriptable in-memory transport. The zero value is not
// usable; create one with New.
type Transport struct {
	mu        sync.Mutex
	send      SendFunc
	stream    StreamFunc
	requests  []*httpclient.TransportRequest
	cancelled []string
	started   chan string
}

var _ httpclient.Transport = (*Transport)(nil)

// New returns a transport that answers every Send with a 200 and an empty
// body and every stream with no events.
func New() *Transport {
	t := &Transport{started: make(chan string, 64)}
	t.Reset()
	return t
}

// Reset clears recorded requests and restores the default replies.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send = func(context.Context, *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
		return OK(""), nil
	}
	t.stream = func(context.Context, *httpclient.TransportRequest, func(httpclient.Event, error)) error {
		return nil
	}
	t.requests = nil
	t.cancelled = nil
}

// Respond makes every Send return resp.
func (t *Transport) Respond(resp *httpclient.TransportResponse) {
	t.RespondFunc(func(context.Context, *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
		return resp, nil
	})
}

// RespondFunc makes every Send call fn.
func (t *Transport) RespondFunc(fn SendFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send = fn
}

// Fail makes every Send and SendStreaming return err.
func (t *Transport) Fail(err error) {
	t.RespondFunc(func(context.Context, *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
		return nil, err
	})
	t.StreamFunc(func(context.Context, *httpclient.TransportRequest, func(httpclient.Event, error)) error {
		return err
	})
}

// Block makes every Send and SendStreaming wait until its context is done.
func (t *Transport) Block() {
	t.RespondFunc(func(ctx context.Context, _ *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	t.StreamFunc(func(ctx context.Context, _ *httpclient.TransportRequest, _ func(httpclient.Event, error)) error {
		<-ctx.Done()
		return ctx.Err()
	})
}

// Events makes every stream emit events in order and then end cleanly.
func (t *Transport) Events(events ...httpclient.Event) {
	t.StreamFunc(func(_ context.Context, _ *httpclient.TransportRequest, emit func(httpclient.Event, error)) error {
		for _, ev := range events {
			emit(ev, nil)
		}
		return nil
	})
}

// StreamFunc makes every SendStreaming call fn.
func (t *Transport) StreamFunc(fn StreamFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stream = fn
}

// Send records req and returns the scripted response.
func (t *Transport) Send(ctx context.Context, req *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
	fn := t.record(req)
	return fn(ctx, req)
}

// SendStreaming records req and runs the scripted stream.
func (t *Transport) SendStreaming(ctx context.Context, req *httpclient.TransportRequest, onEvent func(httpclient.Event, error)) error {
	t.record(req)
	t.mu.Lock()
	fn := t.stream
	t.mu.Unlock()
	return fn(ctx, req, onEvent)
}

// Cancel records the cancelled request id.
func (t *Transport) Cancel(req *httpclient.TransportRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = append(t.cancelled, req.ID)
}

func (t *Transport) record(req *httpclient.TransportRequest) SendFunc {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	fn := t.send
	t.mu.Unlock()
	select {
	case t.started <- req.ID:
	default:
	}
	return fn
}

// Started receives the id of each request as it reaches the transport.
func (t *Transport) Started() <-chan string { return t.started }

// Requests returns every request seen, in arrival order.
func (t *Transport) Requests() []*httpclient.TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*httpclient.TransportRequest(nil), t.requests...)
}

// LastRequest returns the most recent request, or nil.
func (t *Transport) LastRequest() *httpclient.TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return t.requests[len(t.requests)-1]
}

// Cancelled returns the ids passed to Cancel, in call order.
func (t *Transport) Cancelled() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.cancelled...)
}

// OK returns a successful 200 response with a JSON body.
func OK(body string) *httpclient.TransportResponse {
	return Status(200, body)
}

// Status returns a response with the given code. Codes in 200-299 are
// marked successful.
func Status(code int, body string) *httpclient.TransportResponse {
	resp := &httpclient.TransportResponse{
		Code:     code,
		Success:  code >= 200 && code < 300,
		Protocol: "http/1.1",
		Headers:  map[string]string{"Content-Type": "application/json"},
	}
	if body != "" {
		resp.Body = &httpclient.TransportBody{
			Data:          []byte(body),
			ContentType:   "application/json",
			ContentLength: int64(len(body)),
		}
	}
	return resp
}
