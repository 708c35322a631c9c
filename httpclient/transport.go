package httpclient

import (
	"context"

	"github.com/ssj4429108/OkRequest/httpclient/sse"
)

// Event is one server-sent event delivered by a streaming transport.
type Event = sse.Event

// Transport performs the network exchange for the client.
//
// Implementations must be safe for concurrent use. Cancel is best-effort and
// must be a no-op for requests that are not in flight.
type Transport interface {
	// Send performs a one-shot exchange. A nil response with a nil error
	// means the transport produced no result.
	Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

	// SendStreaming opens an event stream and calls onEvent once per event,
	// or with a non-nil error for a failed event, until the stream ends.
	SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error

	// Cancel aborts an in-flight Send or SendStreaming for req.
	Cancel(req *TransportRequest)
}

// TransportRequest is the serialized form of a Request handed to a Transport.
type TransportRequest struct {
	ID          string
	URL         string
	Method      string
	Headers     Headers
	MediaType   string
	Body        []byte
	Protocol    Protocol
	EventSource bool
}

// TransportResponse is the raw result of a Send.
type TransportResponse struct {
	Code     int
	Message  string
	Success  bool
	Protocol string
	Headers  map[string]string
	Body     *TransportBody
}

// TransportBody is the payload of a TransportResponse.
type TransportBody struct {
	Data          []byte
	ContentType   string
	ContentLength int64
}

// TransportMiddleware wraps a Transport with cross-cutting behavior.
type TransportMiddleware func(Transport) Transport

// Chain composes middlewares. The first middleware is outermost:
// Chain(a, b, c)(t) is a(b(c(t))).
func Chain(middlewares ...TransportMiddleware) TransportMiddleware {
	return func(inner Transport) Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}
