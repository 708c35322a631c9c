package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ssj4429108/OkRequest/component"
)

// TelemetryConfig selects which exporters Telemetry starts.
type TelemetryConfig struct {
	Tracing bool         `yaml:"tracing" mapstructure:"tracing"`
	Metrics bool         `yaml:"metrics" mapstructure:"metrics"`
	Tracer  TracerConfig `yaml:"tracer" mapstructure:"tracer"`
	Meter   MeterConfig  `yaml:"meter" mapstructure:"meter"`
}

// Telemetry owns the tracer and meter providers as a component.
type Telemetry struct {
	cfg TelemetryConfig

	mu      sync.Mutex
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	started bool
}

var _ component.Component = (*Telemetry)(nil)

// NewTelemetry creates a Telemetry component.
func NewTelemetry(cfg TelemetryConfig) *Telemetry {
	return &Telemetry{cfg: cfg}
}

// Name returns the component name.
func (t *Telemetry) Name() string { return "telemetry" }

// Start initializes the enabled providers.
func (t *Telemetry) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return nil
	}
	if t.cfg.Tracing {
		tp, err := InitTracer(ctx, t.cfg.Tracer)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.tracer = tp
	}
	if t.cfg.Metrics {
		mp, err := InitMeter(ctx, t.cfg.Meter)
		if err != nil {
			if t.tracer != nil {
				_ = t.tracer.Shutdown(ctx)
				t.tracer = nil
			}
			return fmt.Errorf("telemetry: %w", err)
		}
		t.meter = mp
	}
	t.started = true
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs []error
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
		t.tracer = nil
	}
	if t.meter != nil {
		errs = append(errs, t.meter.Shutdown(ctx))
		t.meter = nil
	}
	t.started = false
	return errors.Join(errs...)
}

// Health reports whether the providers are running.
func (t *Telemetry) Health(context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.started && (t.cfg.Tracing || t.cfg.Metrics) {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe implements component.Describable.
func (t *Telemetry) Describe() component.Description {
	return component.Description{
		Name:    "Telemetry",
		Type:    "telemetry",
		Details: fmt.Sprintf("tracing=%t metrics=%t", t.cfg.Tracing, t.cfg.Metrics),
	}
}
