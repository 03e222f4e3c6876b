package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/streamhub/component"
)

// Component exposes the stream registry as a lifecycle-managed component.
// Stop ends every registered stream so their handlers can return before the
// HTTP server shuts down.
type Component struct {
	registry *Registry
	handler  *Handler
	opts     Options
	mu       sync.Mutex
	running  bool
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component with a fresh registry and handler.
func NewComponent(opts Options) *Component {
	reg := NewRegistry()
	return &Component{
		registry: reg,
		handler:  NewHandler(reg, opts),
		opts:     opts,
	}
}

// Registry returns the stream registry.
func (c *Component) Registry() *Registry { return c.registry }

// Handler returns the handler that opens and attaches sessions.
func (c *Component) Handler() *Handler { return c.handler }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start marks the hub as accepting streams.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	return nil
}

// Stop ends every open stream with reason shutdown.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.registry.CloseAll()
	return nil
}

// Reset ends every open stream and leaves the component running.
func (c *Component) Reset(_ context.Context) error {
	c.registry.CloseAll()
	return nil
}

// Health reports the number of registered streams.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()

	status := component.StatusHealthy
	if !running {
		status = component.StatusDegraded
	}
	return component.Health{
		Name:    c.Name(),
		Status:  status,
		Message: fmt.Sprintf("%d streams open", c.registry.Size()),
	}
}

// Describe returns summary info for the startup display.
func (c *Component) Describe() component.Description {
	keepAlive := "off"
	if c.opts.KeepAlive > 0 {
		keepAlive = c.opts.KeepAlive.String()
	}
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("keepalive=%s streams=%d", keepAlive, c.registry.Size()),
	}
}
