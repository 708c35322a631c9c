package nethttp

import (
	"context"
	"sync"

	"github.com/ssj4429108/OkRequest/component"
	"github.com/ssj4429108/OkRequest/httpclient"
)

// Component manages an engine and the client on top of it. The client is
// created in Start and torn down in Stop, which aborts in-flight requests.
type Component struct {
	name   string
	config httpclient.Config
	opts   []httpclient.Option

	mu     sync.RWMutex
	engine *Engine
	client *httpclient.Client
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is built lazily in Start.
func NewComponent(name string, cfg httpclient.Config, opts ...httpclient.Option) *Component {
	if name == "" {
		name = "http"
	}
	return &Component{name: name, config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Start builds the engine and client.
func (c *Component) Start(_ context.Context) error {
	e, err := New(c.config)
	if err != nil {
		return err
	}
	opts := append([]httpclient.Option{httpclient.WithTransport(e)}, c.opts...)
	client, err := httpclient.New(c.config, opts...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.engine, c.client = e, client
	c.mu.Unlock()
	return nil
}

// Stop cancels in-flight requests and closes idle connections.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.CancelAll()
	}
	if c.engine != nil {
		c.engine.CloseIdleConnections()
	}
	c.engine, c.client = nil, nil
	return nil
}

// Health reports healthy once started.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.name,
		Type:    "http-client",
		Details: c.config.BaseURL,
	}
}

// Client returns the client. It is nil until Start succeeds.
func (c *Component) Client() *httpclient.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
