package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ssj4429108/OkRequest/component"
	"github.com/ssj4429108/OkRequest/httpclient"
	"github.com/ssj4429108/OkRequest/httpclient/nethttp"
	"github.com/ssj4429108/OkRequest/logger"
	"github.com/ssj4429108/OkRequest/observability"
)

const shutdownTimeout = 5 * time.Second

// session owns the components behind one okreq invocation.
type session struct {
	registry *component.Registry
	http     *nethttp.Component
	log      *logger.Logger
}

func newSession(cfg *Config, log *logger.Logger) (*session, error) {
	opts := []httpclient.Option{httpclient.WithLogger(log)}
	middlewares := []httpclient.TransportMiddleware{httpclient.WithLogging(log.WithComponent("transport"))}
	if cfg.Telemetry.Tracing {
		middlewares = append(middlewares, httpclient.WithTracing(appName))
	}
	if cfg.Telemetry.Metrics {
		metrics, err := observability.NewClientMetrics(observability.Meter(appName))
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, httpclient.WithMetrics(metrics))
	}
	opts = append(opts, httpclient.WithMiddleware(middlewares...))

	s := &session{
		registry: component.NewRegistry(),
		http:     nethttp.NewComponent("http", cfg.HTTP, opts...),
		log:      log,
	}
	if err := s.registry.Register(observability.NewTelemetry(cfg.Telemetry)); err != nil {
		return nil, err
	}
	if err := s.registry.Register(s.http); err != nil {
		return nil, err
	}
	return s, nil
}

// run starts the components, runs task until it returns or SIGINT/SIGTERM
// arrives, then stops the components.
func (s *session) run(ctx context.Context, task func(ctx context.Context, c *httpclient.Client) error) error {
	if err := s.registry.StartAll(ctx); err != nil {
		return withCode(ExitConfigError, err)
	}
	if err := s.ready(ctx); err != nil {
		_ = s.stop()
		return withCode(ExitConfigError, err)
	}

	taskCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	taskErr := task(taskCtx, s.http.Client())
	cancel()

	if err := s.stop(); err != nil {
		s.log.Warn("shutdown failed", logger.MergeWithError(nil, err))
		if taskErr == nil {
			return err
		}
	}
	return taskErr
}

func (s *session) ready(ctx context.Context) error {
	for _, h := range s.registry.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			return fmt.Errorf("component %s is %s: %s", h.Name, h.Status, h.Message)
		}
	}
	return nil
}

func (s *session) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.registry.StopAll(ctx)
}
