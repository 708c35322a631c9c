package httpclient

import (
	"context"
	"time"

	"github.com/ssj4429108/OkRequest/logger"
	"github.com/ssj4429108/OkRequest/observability"
)

// WithLogging returns a middleware that logs each transport call with its
// duration. Failures are logged at warn, successes at debug.
func WithLogging(log *logger.Logger) TransportMiddleware {
	return func(inner Transport) Transport {
		return &loggingTransport{inner: inner, log: log}
	}
}

type loggingTransport struct {
	inner Transport
	log   *logger.Logger
}

func (t *loggingTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	start := time.Now()
	resp, err := t.inner.Send(ctx, req)
	fields := requestFields(req, time.Since(start))
	switch {
	case err != nil:
		t.log.Warn("transport send failed", logger.MergeWithError(fields, err))
	case resp == nil:
		t.log.Debug("transport send returned no response", fields)
	default:
		fields[logger.FieldStatus] = resp.Code
		fields[logger.FieldProtocol] = resp.Protocol
		t.log.Debug("transport send ok", fields)
	}
	return resp, err
}

func (t *loggingTransport) SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error {
	start := time.Now()
	var events int
	err := t.inner.SendStreaming(ctx, req, func(ev Event, evErr error) {
		if evErr == nil {
			events++
		}
		onEvent(ev, evErr)
	})
	fields := requestFields(req, time.Since(start))
	fields["events"] = events
	if err != nil {
		t.log.Warn("transport stream failed", logger.MergeWithError(fields, err))
	} else {
		t.log.Debug("transport stream closed", fields)
	}
	return err
}

func (t *loggingTransport) Cancel(req *TransportRequest) {
	t.log.Debug("transport cancel", logger.Fields(logger.FieldRequestID, req.ID))
	t.inner.Cancel(req)
}

func requestFields(req *TransportRequest, d time.Duration) map[string]any {
	return map[string]any{
		logger.FieldRequestID: req.ID,
		logger.FieldMethod:    req.Method,
		logger.FieldURL:       req.URL,
		logger.FieldDuration:  d.Milliseconds(),
	}
}

// WithTracing returns a middleware that opens a span around each transport
// call, named http.request for Send and http.stream for SendStreaming.
func WithTracing(serviceName string) TransportMiddleware {
	return func(inner Transport) Transport {
		return &tracingTransport{inner: inner, serviceName: serviceName}
	}
}

type tracingTransport struct {
	inner       Transport
	serviceName string
}

func (t *tracingTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest)
	defer span.End()
	t.annotate(ctx, req)

	resp, err := t.inner.Send(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return resp, err
	}
	if resp != nil {
		observability.SetSpanAttribute(ctx, observability.AttrStatusCode, resp.Code)
		observability.SetSpanAttribute(ctx, observability.AttrProtocol, resp.Protocol)
	}
	return resp, nil
}

func (t *tracingTransport) SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPStream)
	defer span.End()
	t.annotate(ctx, req)

	err := t.inner.SendStreaming(ctx, req, onEvent)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return err
}

func (t *tracingTransport) Cancel(req *TransportRequest) { t.inner.Cancel(req) }

func (t *tracingTransport) annotate(ctx context.Context, req *TransportRequest) {
	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrRequestID, req.ID)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)
	observability.SetSpanAttribute(ctx, observability.AttrURL, req.URL)
}

// WithMetrics returns a middleware recording request counts, durations,
// in-flight requests and stream events.
func WithMetrics(metrics *observability.ClientMetrics) TransportMiddleware {
	return func(inner Transport) Transport {
		return &metricsTransport{inner: inner, metrics: metrics}
	}
}

type metricsTransport struct {
	inner   Transport
	metrics *observability.ClientMetrics
}

func (t *metricsTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	start := time.Now()
	t.metrics.RecordRequestStart(ctx)
	resp, err := t.inner.Send(ctx, req)

	var status int
	var protocol string
	if resp != nil {
		status, protocol = resp.Code, resp.Protocol
	}
	t.metrics.RecordRequestEnd(ctx, req.Method, status, protocol, time.Since(start))
	if err != nil {
		t.metrics.RecordError(ctx, req.Method, errorKind(ctx))
	}
	return resp, err
}

func (t *metricsTransport) SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error {
	start := time.Now()
	t.metrics.RecordRequestStart(ctx)
	err := t.inner.SendStreaming(ctx, req, func(ev Event, evErr error) {
		if evErr == nil {
			t.metrics.RecordStreamEvent(ctx, req.Method)
		}
		onEvent(ev, evErr)
	})
	t.metrics.RecordRequestEnd(ctx, req.Method, 0, "", time.Since(start))
	if err != nil {
		t.metrics.RecordError(ctx, req.Method, errorKind(ctx))
	}
	return err
}

func (t *metricsTransport) Cancel(req *TransportRequest) { t.inner.Cancel(req) }

func errorKind(ctx context.Context) string {
	if ctx.Err() != nil {
		return ErrCodeAborted.String()
	}
	return ErrCodeTransport.String()
}
