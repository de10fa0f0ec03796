package proxy

import (
	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/pipeline"
	"github.com/glimte/hookable-go/registry"
)

// Option configures an Object
type Option func(*Object)

// WithContainer dispatches through c instead of the container bound to the type
func WithContainer(c *registry.Container) Option {
	return func(o *Object) {
		if c != nil {
			o.container = c
		}
	}
}

// Object is an intercepted instance
type Object struct {
	target    Target
	typ       *contracts.Type
	container *registry.Container
}

var _ contracts.Instance = (*Object)(nil)

// New wraps target under t
func New(target Target, t *contracts.Type, options ...Option) (*Object, error) {
	if t == nil {
		return nil, contracts.ErrNilType
	}
	if t.IsBase() {
		return nil, &contracts.ProtectedTypeError{Op: "construct"}
	}
	if target == nil {
		return nil, contracts.ErrNilTarget
	}

	o := &Object{
		target:    target,
		typ:       t,
		container: registry.ContainerFor(t),
	}
	for _, opt := range options {
		opt(o)
	}

	return o, nil
}

// MustNew is like New but panics on error
func MustNew(target Target, t *contracts.Type, options ...Option) *Object {
	o, err := New(target, t, options...)
	if err != nil {
		panic(err)
	}
	return o
}

// IsIntercepted reports whether v is an intercepted instance
func IsIntercepted(v any) bool {
	o, ok := v.(*Object)
	return ok && o != nil
}

// Type returns the owning type
func (o *Object) Type() *contracts.Type {
	return o.typ
}

// Target returns the raw, unhooked target
func (o *Object) Target() Target {
	return o.target
}

// Container returns the container the object dispatches through
func (o *Object) Container() *registry.Container {
	return o.container
}

// Keys returns the members of the target if it can enumerate them
func (o *Object) Keys() []contracts.Key {
	if k, ok := o.target.(Keyed); ok {
		return k.Keys()
	}
	return nil
}

// Get reads key through the get chain. Callable results are passed through
// the derived chains and returned as a contracts.Func.
func (o *Object) Get(key contracts.Key) (any, error) {
	if err := contracts.ValidateKey(key); err != nil {
		return nil, err
	}

	raw, err := o.target.Get(key)
	if err != nil {
		return nil, err
	}
	raw = o.bind(raw)

	if o.typ.Excludes(key) {
		return raw, nil
	}

	v, err := o.container.Dispatch(o, o.typ, contracts.KindGet, key, raw)
	if err != nil {
		return nil, err
	}
	if !contracts.IsCallable(v) {
		return v, nil
	}

	return o.derive(key, v)
}

// derive folds a callable through every derived chain
func (o *Object) derive(key contracts.Key, v any) (any, error) {
	p, _ := pipeline.From(v, o, key)

	for _, kind := range contracts.CallableKinds() {
		out, err := o.container.Dispatch(o, o.typ, kind, key, p)
		if err != nil {
			return nil, err
		}
		next, ok := pipeline.From(out, o, key)
		if !ok {
			return nil, &contracts.NotCallableError{Type: o.typ.Name(), Key: key}
		}
		p = next
	}

	if p.Len() == 0 {
		return p.Original(), nil
	}
	return p.Func(), nil
}

// bind binds unbound methods to the object so their own member reads are hooked
func (o *Object) bind(v any) any {
	switch m := v.(type) {
	case contracts.Method:
		if m != nil {
			return m.Bind(o)
		}
	case func(self contracts.Instance, args ...any) (any, error):
		if m != nil {
			return contracts.Method(m).Bind(o)
		}
	}
	return v
}

// Set writes key through the set chain and commits the final value.
// OnCommit callbacks of the chain run only once the target accepted it.
func (o *Object) Set(key contracts.Key, value any) error {
	if err := contracts.ValidateKey(key); err != nil {
		return err
	}

	if o.typ.Excludes(key) {
		return o.target.Set(key, value)
	}

	hc, err := o.container.Run(o, o.typ, contracts.KindSet, key, value)
	if err != nil {
		return err
	}
	if err := o.target.Set(key, hc.Value); err != nil {
		return err
	}
	hc.Commit()
	return nil
}

// Call resolves key and invokes it
func (o *Object) Call(key contracts.Key, args ...any) (any, error) {
	v, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	fn, ok := contracts.AsFunc(v)
	if !ok {
		return nil, &contracts.NotCallableError{Type: o.typ.Name(), Key: key}
	}
	return fn(args...)
}
