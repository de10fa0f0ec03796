package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/glimte/hookable-go/contracts"
)

type (
	levelMap map[int]*chain
	keyMap   map[contracts.Key]levelMap
	kindMap  map[contracts.Kind]keyMap
)

// Container is a hook registry: owning type -> kind -> key -> priority -> listeners
type Container struct {
	hooks  map[*contracts.Type]kindMap
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewContainer creates an empty container
func NewContainer(options ...Option) *Container {
	c := &Container{
		hooks:  make(map[*contracts.Type]kindMap),
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// SetLogger replaces the container logger
func (c *Container) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Register adds listener to the (t, kind, key, priority) bucket and returns
// the handle that removes it again. Registering a pointer-backed listener
// that is already in the bucket returns a handle to the existing entry.
func (c *Container) Register(t *contracts.Type, kind contracts.Kind, key contracts.Key, listener Listener, priority int) (*Registration, error) {
	if t == nil {
		return nil, contracts.ErrNilType
	}
	if t.IsBase() {
		return nil, &contracts.ProtectedTypeError{Op: "register"}
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := contracts.ValidateKey(key); err != nil {
		return nil, err
	}
	if listener == nil {
		return nil, contracts.ErrNilListener
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kinds, ok := c.hooks[t]
	if !ok {
		kinds = make(kindMap)
		c.hooks[t] = kinds
	}
	keys, ok := kinds[kind]
	if !ok {
		keys = make(keyMap)
		kinds[kind] = keys
	}
	levels, ok := keys[key]
	if !ok {
		levels = make(levelMap)
		keys[key] = levels
	}
	bucket, ok := levels[priority]
	if !ok {
		bucket = &chain{}
		levels[priority] = bucket
	}

	e, added := bucket.add(listener)
	if added {
		c.logger.Debug("registered hook listener",
			"type", t.Name(),
			"kind", kind,
			"key", contracts.FormatKey(key),
			"priority", priority,
			"id", e.id,
		)
	}

	return &Registration{
		container: c,
		owner:     t,
		kind:      kind,
		key:       key,
		priority:  priority,
		entry:     e,
	}, nil
}

// unregister removes e from its bucket and prunes empty maps
func (c *Container) unregister(r *Registration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	levels := c.hooks[r.owner][r.kind][r.key]
	bucket, ok := levels[r.priority]
	if !ok || !bucket.remove(r.entry) {
		return false
	}

	if bucket.len() == 0 {
		delete(levels, r.priority)
	}
	if len(levels) == 0 {
		delete(c.hooks[r.owner][r.kind], r.key)
	}
	if len(c.hooks[r.owner][r.kind]) == 0 {
		delete(c.hooks[r.owner], r.kind)
	}
	if len(c.hooks[r.owner]) == 0 {
		delete(c.hooks, r.owner)
	}

	c.logger.Debug("unregistered hook listener",
		"type", r.owner.Name(),
		"kind", r.kind,
		"key", contracts.FormatKey(r.key),
		"priority", r.priority,
		"id", r.entry.id,
	)

	return true
}

// Len returns the number of registered listeners
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, kinds := range c.hooks {
		for _, keys := range kinds {
			for _, levels := range keys {
				for _, bucket := range levels {
					n += bucket.len()
				}
			}
		}
	}
	return n
}

// Types returns the owning types that currently have listeners
func (c *Container) Types() []*contracts.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]*contracts.Type, 0, len(c.hooks))
	for t := range c.hooks {
		types = append(types, t)
	}
	return types
}

// Reset removes every listener. Outstanding registrations become no-ops.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = make(map[*contracts.Type]kindMap)
}

// Registration is the handle returned by Register
type Registration struct {
	container *Container
	owner     *contracts.Type
	kind      contracts.Kind
	key       contracts.Key
	priority  int
	entry     *entry
}

// Unregister removes the listener. It returns true only on the call that
// actually removed it; later calls are no-ops.
func (r *Registration) Unregister() bool {
	if r == nil || r.container == nil {
		return false
	}
	return r.container.unregister(r)
}

// ID returns the unique id of the registered entry
func (r *Registration) ID() string {
	return r.entry.id
}

// Owner returns the type the listener is registered on
func (r *Registration) Owner() *contracts.Type {
	return r.owner
}

// Kind returns the event kind
func (r *Registration) Kind() contracts.Kind {
	return r.kind
}

// Key returns the member key
func (r *Registration) Key() contracts.Key {
	return r.key
}

// Priority returns the bucket priority
func (r *Registration) Priority() int {
	return r.priority
}

// String implements fmt.Stringer
func (r *Registration) String() string {
	return fmt.Sprintf("%s.%s[%s]@%d", r.owner.Name(), r.kind, contracts.FormatKey(r.key), r.priority)
}
