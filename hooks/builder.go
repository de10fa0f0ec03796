package hooks

import (
	"log/slog"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/registry"
)

// Option configures a Builder
type Option func(*Builder)

// WithContainer registers into c instead of the container bound to the type
func WithContainer(c *registry.Container) Option {
	return func(b *Builder) {
		if c != nil {
			b.container = c
		}
	}
}

// WithLogger sets the builder logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder registers hooks for one owning type
type Builder struct {
	typ       *contracts.Type
	container *registry.Container
	priority  int
	logger    *slog.Logger
}

// To returns a builder for t
func To(t *contracts.Type, options ...Option) (*Builder, error) {
	if t == nil {
		return nil, contracts.ErrNilType
	}
	if t.IsBase() {
		return nil, &contracts.ProtectedTypeError{Op: "hook"}
	}

	b := &Builder{
		typ:       t,
		container: registry.ContainerFor(t),
		priority:  registry.DefaultPriority,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(b)
	}

	return b, nil
}

// MustTo is like To but panics on error
func MustTo(t *contracts.Type, options ...Option) *Builder {
	b, err := To(t, options...)
	if err != nil {
		panic(err)
	}
	return b
}

// At returns a copy of the builder that registers at priority
func (b *Builder) At(priority int) *Builder {
	c := *b
	c.priority = priority
	return &c
}

// Type returns the owning type
func (b *Builder) Type() *contracts.Type {
	return b.typ
}

// Container returns the container the builder registers into
func (b *Builder) Container() *registry.Container {
	return b.container
}

// Priority returns the priority new registrations use
func (b *Builder) Priority() int {
	return b.priority
}

// On registers listener for an arbitrary kind
func (b *Builder) On(kind contracts.Kind, key contracts.Key, listener registry.Listener) (*registry.Registration, error) {
	return b.container.Register(b.typ, kind, key, listener, b.priority)
}

// Get registers a raw get listener
func (b *Builder) Get(key contracts.Key, fn registry.ListenerFunc) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.On(contracts.KindGet, key, fn)
}

// Set registers a raw set listener
func (b *Builder) Set(key contracts.Key, fn registry.ListenerFunc) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.On(contracts.KindSet, key, fn)
}

// Property registers a get listener that replaces the read value with fn's result
func (b *Builder) Property(key contracts.Key, fn func(self contracts.Instance, value any) (any, error)) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.On(contracts.KindGet, key, registry.ListenerFunc(func(hc *registry.HookCtx) error {
		v, err := fn(hc.Receiver, hc.Value)
		if err != nil {
			return err
		}
		hc.Value = v
		return nil
	}))
}
