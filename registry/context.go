package registry

import "github.com/glimte/hookable-go/contracts"

// HookCtx is the per-dispatch context handed to every listener of one chain
type HookCtx struct {
	// Receiver is the intercepted instance the member is accessed on
	Receiver contracts.Instance

	// Type is the runtime owning type the chain was resolved for
	Type *contracts.Type

	// Kind is the event kind being dispatched
	Kind contracts.Kind

	// Key is the member being accessed
	Key contracts.Key

	// Value is threaded through the chain; each listener may replace it
	Value any

	stopped bool
	commits []func()
}

// Stop halts the remaining listeners of this dispatch
func (c *HookCtx) Stop() {
	c.stopped = true
}

// Stopped reports whether Stop was called
func (c *HookCtx) Stopped() bool {
	return c.stopped
}

// OnCommit defers fn until the caller has applied the chain's final value.
// Callbacks are dropped when a later listener or the write itself fails.
func (c *HookCtx) OnCommit(fn func()) {
	if fn != nil {
		c.commits = append(c.commits, fn)
	}
}

// Commit runs the callbacks registered with OnCommit in registration order
func (c *HookCtx) Commit() {
	commits := c.commits
	c.commits = nil
	for _, fn := range commits {
		fn()
	}
}

// Listener observes or rewrites a member access through its HookCtx
type Listener interface {
	Handle(c *HookCtx) error
}

// ListenerFunc is a function adapter for Listener
type ListenerFunc func(c *HookCtx) error

// Handle implements Listener
func (f ListenerFunc) Handle(c *HookCtx) error {
	return f(c)
}
