package httpclient

import (
	"context"
	"sync"
	"sync/atomic"
)

// Stream is an open event stream. Events are read from Events until the
// channel is closed, after which Err reports how the stream ended.
type Stream struct {
	ctx     context.Context
	client  *Client
	request *Request
	entry   *inflight

	events  chan Event
	done    chan struct{}
	stopped atomic.Bool

	mu  sync.Mutex
	err error
}

func newStream(ctx context.Context, c *Client, req *Request, entry *inflight) *Stream {
	return &Stream{
		ctx:     ctx,
		client:  c,
		request: req,
		entry:   entry,
		events:  make(chan Event),
		done:    make(chan struct{}),
	}
}

// Events returns the event channel. It is closed when the stream ends.
func (s *Stream) Events() <-chan Event { return s.events }

// Request returns the request that opened the stream.
func (s *Stream) Request() *Request { return s.request }

// Cancel stops the stream. Suppression is best effort: events produced after
// Cancel are dropped, but one delivery already waiting on the channel may
// still be received. The transport may take longer to wind down.
func (s *Stream) Cancel() {
	s.stopped.Store(true)
	s.client.cancelEntry(s.entry)
}

// Wait blocks until the stream ends and returns Err.
func (s *Stream) Wait() error {
	<-s.done
	return s.Err()
}

// Err returns the error that ended the stream, or nil while it is open or
// after a clean end. A cancelled stream reports an ErrCodeAborted error.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// deliver is the transport callback. The stopped flag is checked before
// every delivery so events arriving after cancellation are dropped.
func (s *Stream) deliver(ev Event, err error) {
	if s.stopped.Load() || s.entry.cancelled.Load() {
		return
	}
	if err != nil {
		s.setErr(NewTransportError(s.request, err))
		s.stopped.Store(true)
		s.client.cancelEntry(s.entry)
		return
	}
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *Stream) finish(err error) {
	if err == nil && s.entry.cancelled.Load() {
		err = NewAbortedError(s.request, nil)
	}
	if err != nil {
		s.setErr(err)
	}
	s.stopped.Store(true)
	close(s.events)
	close(s.done)
}

// setErr keeps the first error.
func (s *Stream) setErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}
