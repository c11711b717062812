package activity

import "sync"

// Controller holds the logging on/off state. Listeners run synchronously on
// every transition, in subscription order, with the new state.
type Controller struct {
	mu        sync.Mutex
	enabled   bool
	listeners []func(enabled bool)
}

// NewController creates a controller in the disabled state.
func NewController() *Controller {
	return &Controller{}
}

// Subscribe registers fn to be called on each state change.
func (c *Controller) Subscribe(fn func(enabled bool)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Enabled reports whether logging is on.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Enable turns logging on. It returns false if logging was already on.
func (c *Controller) Enable() bool {
	return c.set(true)
}

// Disable turns logging off. It returns false if logging was already off.
func (c *Controller) Disable() bool {
	return c.set(false)
}

// Set moves to the given state and reports whether it changed.
func (c *Controller) Set(enabled bool) bool {
	return c.set(enabled)
}

// Toggle flips the state and returns the new one.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	next := !c.enabled
	c.commitLocked(next)
	return next
}

func (c *Controller) set(enabled bool) bool {
	c.mu.Lock()
	if c.enabled == enabled {
		c.mu.Unlock()
		return false
	}
	c.commitLocked(enabled)
	return true
}

// commitLocked stores enabled, releases the lock and then notifies listeners.
func (c *Controller) commitLocked(enabled bool) {
	c.enabled = enabled
	listeners := make([]func(bool), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(enabled)
	}
}
