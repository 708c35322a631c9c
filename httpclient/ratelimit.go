package httpclient

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitConfig throttles outgoing requests with a token bucket.
type RateLimitConfig struct {
	// RPS is the sustained request rate per second.
	RPS float64 `yaml:"rps" mapstructure:"rps" validate:"gt=0"`
	// Burst is the bucket size. Defaults to 1.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// Limiter builds the token bucket for c.
func (c *RateLimitConfig) Limiter() *rate.Limiter {
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.RPS), burst)
}

// WithRateLimit returns a middleware that waits for a limiter token before
// each Send and SendStreaming. A wait cut short by ctx fails the call.
func WithRateLimit(limiter *rate.Limiter) TransportMiddleware {
	return func(inner Transport) Transport {
		return &rateLimitTransport{inner: inner, limiter: limiter}
	}
}

type rateLimitTransport struct {
	inner   Transport
	limiter *rate.Limiter
}

func (t *rateLimitTransport) wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (t *rateLimitTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.Send(ctx, req)
}

func (t *rateLimitTransport) SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.SendStreaming(ctx, req, onEvent)
}

func (t *rateLimitTransport) Cancel(req *TransportRequest) { t.inner.Cancel(req) }
