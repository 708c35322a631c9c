package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ssj4429108/OkRequest/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ClientMetrics holds the instruments recorded for outgoing HTTP requests.
type ClientMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	streamEvents    metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewClientMetrics creates the client instruments on the given meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requestTotal, err := meter.Int64Counter("http.client.requests",
		metric.WithDescription("Total number of requests sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.client.active_requests",
		metric.WithDescription("Number of requests in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.active_requests gauge: %w", err)
	}

	streamEvents, err := meter.Int64Counter("http.client.stream.events",
		metric.WithDescription("Server-sent events received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.stream.events counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("http.client.errors",
		metric.WithDescription("Requests that failed before a response"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.errors counter: %w", err)
	}

	return &ClientMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		streamEvents:    streamEvents,
		errorTotal:      errorTotal,
	}, nil
}

// RecordRequestStart increments the in-flight count.
func (m *ClientMetrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements the in-flight count and records a completed
// request. A zero status means no response was received.
func (m *ClientMetrics) RecordRequestEnd(ctx context.Context, method string, status int, protocol string, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrStatusCode, strconv.Itoa(status)),
		attribute.String(AttrProtocol, protocol),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
	))
}

// RecordStreamEvent counts one received event.
func (m *ClientMetrics) RecordStreamEvent(ctx context.Context, method string) {
	m.streamEvents.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrHTTPMethod, method)))
}

// RecordError counts a failed request by error kind.
func (m *ClientMetrics) RecordError(ctx context.Context, method, kind string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String("error.type", kind),
	))
}
