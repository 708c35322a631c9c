package httpclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ssj4429108/OkRequest/httpclient"
	"github.com/ssj4429108/OkRequest/httpclient/httpclienttest"
	"github.com/ssj4429108/OkRequest/logger"
	"github.com/ssj4429108/OkRequest/observability"
)

type wrapTransport struct {
	name  string
	inner httpclient.Transport
	log   *[]string
}

func (w *wrapTransport) Send(ctx context.Context, req *httpclient.TransportRequest) (*httpclient.TransportResponse, error) {
	*w.log = append(*w.log, w.name)
	return w.inner.Send(ctx, req)
}

func (w *wrapTransport) SendStreaming(ctx context.Context, req *httpclient.TransportRequest, onEvent func(httpclient.Event, error)) error {
	return w.inner.SendStreaming(ctx, req, onEvent)
}

func (w *wrapTransport) Cancel(req *httpclient.TransportRequest) { w.inner.Cancel(req) }

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) httpclient.TransportMiddleware {
		return func(inner httpclient.Transport) httpclient.Transport {
			return &wrapTransport{name: name, inner: inner, log: &order}
		}
	}
	fake := httpclienttest.New()
	c := newClient(t, httpclient.Config{}, fake, httpclient.WithMiddleware(mw("a"), mw("b"), mw("c")))

	if _, err := c.Get("http://x").Send(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v", order)
	}
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func findLine(lines []map[string]any, msg string) map[string]any {
	for _, l := range lines {
		if l["message"] == msg {
			return l
		}
	}
	return nil
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &buf)
	fake := httpclienttest.New()
	tr := httpclient.WithLogging(log)(fake)
	ctx := context.Background()

	req := &httpclient.TransportRequest{ID: "r1", Method: "GET", URL: "http://x"}
	if _, err := tr.Send(ctx, req); err != nil {
		t.Fatal(err)
	}
	fake.Fail(errors.New("refused"))
	_, _ = tr.Send(ctx, req)
	fake.Events(httpclient.Event{Data: "1"}, httpclient.Event{Data: "2"})
	if err := tr.SendStreaming(ctx, req, func(httpclient.Event, error) {}); err != nil {
		t.Fatal(err)
	}

	lines := logLines(t, &buf)
	ok := findLine(lines, "transport send ok")
	if ok == nil || ok[logger.FieldRequestID] != "r1" || ok[logger.FieldStatus] != float64(200) {
		t.Errorf("send ok line = %v", ok)
	}
	if _, has := ok[logger.FieldDuration]; !has {
		t.Error("duration not logged")
	}
	failed := findLine(lines, "transport send failed")
	if failed == nil || failed["level"] != "warn" || failed[logger.FieldError] != "refused" {
		t.Errorf("send failed line = %v", failed)
	}
	closed := findLine(lines, "transport stream closed")
	if closed == nil || closed["events"] != float64(2) {
		t.Errorf("stream line = %v", closed)
	}
}

func TestWithTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	fake := httpclienttest.New()
	tr := httpclient.WithTracing("okreq")(fake)
	req := &httpclient.TransportRequest{ID: "r1", Method: "POST", URL: "http://x/a"}
	if _, err := tr.Send(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	fake.Fail(errors.New("refused"))
	_ = tr.SendStreaming(context.Background(), req, func(httpclient.Event, error) {})

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	send, stream := spans[0], spans[1]
	if send.Name != observability.SpanHTTPRequest || stream.Name != observability.SpanHTTPStream {
		t.Errorf("span names = %q, %q", send.Name, stream.Name)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range send.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[observability.AttrRequestID].AsString() != "r1" ||
		attrs[observability.AttrHTTPMethod].AsString() != "POST" ||
		attrs[observability.AttrStatusCode].AsInt64() != 200 ||
		attrs[observability.AttrServiceName].AsString() != "okreq" {
		t.Errorf("send attributes = %v", send.Attributes)
	}
	if len(stream.Events) != 1 || stream.Events[0].Name != "exception" {
		t.Errorf("stream events = %v", stream.Events)
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observability.NewClientMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	fake := httpclienttest.New()
	c := newClient(t, httpclient.Config{}, fake, httpclient.WithMiddleware(httpclient.WithMetrics(metrics)))
	ctx := context.Background()
	if _, err := c.Get("http://x").Send(ctx); err != nil {
		t.Fatal(err)
	}
	fake.Events(httpclient.Event{Data: "a"}, httpclient.Event{Data: "b"}, httpclient.Event{Data: "c"})
	if err := c.Listen(ctx, mustBuild(t, c.Get("http://x")), func(httpclient.Event) error { return nil }); err != nil {
		t.Fatal(err)
	}
	fake.Fail(errors.New("refused"))
	_, _ = c.Get("http://x").Send(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if s, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	want := map[string]int64{
		"http.client.requests":        3,
		"http.client.active_requests": 0,
		"http.client.stream.events":   3,
		"http.client.errors":          1,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
}

func mustBuild(t *testing.T, b *httpclient.RequestBuilder) *httpclient.Request {
	t.Helper()
	req, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestRateLimit(t *testing.T) {
	fake := httpclienttest.New()
	c := newClient(t, httpclient.Config{RateLimit: &httpclient.RateLimitConfig{RPS: 0.001}}, fake)

	if _, err := c.Get("http://x").Send(context.Background()); err != nil {
		t.Fatalf("first request: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Get("http://x").Send(ctx)
	if !httpclient.IsTransport(err) {
		t.Fatalf("expected the limiter to refuse the wait, got %v", err)
	}
	if n := len(fake.Requests()); n != 1 {
		t.Errorf("transport saw %d requests, want 1", n)
	}
}

func TestRateLimit_InvalidConfig(t *testing.T) {
	_, err := httpclient.New(httpclient.Config{RateLimit: &httpclient.RateLimitConfig{}}, httpclient.WithTransport(httpclienttest.New()))
	if err == nil {
		t.Fatal("expected validation error for zero rps")
	}
}

func TestWithRateLimit_Stream(t *testing.T) {
	fake := httpclienttest.New()
	fake.Events(httpclient.Event{Data: "a"})
	limiter := (&httpclient.RateLimitConfig{RPS: 1000, Burst: 2}).Limiter()
	tr := httpclient.WithRateLimit(limiter)(fake)

	var got []string
	err := tr.SendStreaming(context.Background(), &httpclient.TransportRequest{ID: "s"}, func(ev httpclient.Event, _ error) {
		got = append(got, ev.Data)
	})
	if err != nil || len(got) != 1 {
		t.Errorf("events %v err %v", got, err)
	}
	if limiter.Burst() != 2 {
		t.Errorf("burst = %d", limiter.Burst())
	}
}
