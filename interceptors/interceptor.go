package interceptors

import (
	"fmt"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/future"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// Interceptor attaches a cross-cutting hook to one member
type Interceptor interface {
	// Attach registers the interceptor for key
	Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error)

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(b *hooks.Builder, key contracts.Key) (*registry.Registration, error)
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(b *hooks.Builder, key contracts.Key) (*registry.Registration, error)) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Attach implements Interceptor
func (i *InterceptorFunc) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	return i.fn(b, key)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// Registrations is the set of handles returned by Attach
type Registrations []*registry.Registration

// Unregister removes every registration and returns how many were removed
func (r Registrations) Unregister() int {
	n := 0
	for _, reg := range r {
		if reg.Unregister() {
			n++
		}
	}
	return n
}

// Attach registers interceptors for key in order. If one fails, the ones
// already attached are removed again.
func Attach(b *hooks.Builder, key contracts.Key, interceptors ...Interceptor) (Registrations, error) {
	regs := make(Registrations, 0, len(interceptors))
	for _, i := range interceptors {
		reg, err := i.Attach(b, key)
		if err != nil {
			regs.Unregister()
			return nil, fmt.Errorf("failed to attach %s to %s: %w", i.Name(), contracts.FormatKey(key), err)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// settle runs done once the call outcome is known. Futures are observed on
// settle; the caller receives an equivalent future.
func settle(result any, err error, done func(value any, err error)) (any, error) {
	if err == nil {
		if f, ok := asFuture(result); ok {
			return f.Finally(done), nil
		}
	}
	done(result, err)
	return result, err
}

func typeName(self contracts.Instance) string {
	if self == nil || self.Type() == nil {
		return ""
	}
	return self.Type().Name()
}

func keyName(key contracts.Key) string {
	if s, ok := key.(string); ok {
		return s
	}
	return contracts.FormatKey(key)
}

func asFuture(v any) (*future.Future, bool) {
	f, ok := v.(*future.Future)
	return f, ok && f != nil
}
