package interceptors

import (
	"errors"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// ShortCircuitEvaluator decides whether a read is answered without the rest of the get chain
type ShortCircuitEvaluator interface {
	// ShouldShortCircuit returns true and the replacement value to short-circuit
	ShouldShortCircuit(self contracts.Instance, key contracts.Key, value any) (bool, any, error)
}

// ShortCircuitFunc is a function adapter for ShortCircuitEvaluator
type ShortCircuitFunc func(self contracts.Instance, key contracts.Key, value any) (bool, any, error)

// ShouldShortCircuit implements ShortCircuitEvaluator
func (f ShortCircuitFunc) ShouldShortCircuit(self contracts.Instance, key contracts.Key, value any) (bool, any, error) {
	return f(self, key, value)
}

// ShortCircuitInterceptor replaces a read value and stops the get chain
type ShortCircuitInterceptor struct {
	evaluator ShortCircuitEvaluator
}

// NewShortCircuitInterceptor creates a new short-circuit interceptor
func NewShortCircuitInterceptor(evaluator ShortCircuitEvaluator) *ShortCircuitInterceptor {
	return &ShortCircuitInterceptor{evaluator: evaluator}
}

// Attach implements Interceptor. Attach it at a low priority so it runs
// before the listeners it should skip.
func (i *ShortCircuitInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if i.evaluator == nil {
		return nil, errors.New("short-circuit interceptor: evaluator cannot be nil")
	}
	return b.Get(key, func(hc *registry.HookCtx) error {
		stop, value, err := i.evaluator.ShouldShortCircuit(hc.Receiver, hc.Key, hc.Value)
		if err != nil {
			return err
		}
		if stop {
			hc.Value = value
			hc.Stop()
		}
		return nil
	})
}

// Name implements Interceptor
func (i *ShortCircuitInterceptor) Name() string {
	return "ShortCircuitInterceptor"
}

// ShortCircuit attaches a ShortCircuitInterceptor to key
func ShortCircuit(b *hooks.Builder, key contracts.Key, evaluator ShortCircuitEvaluator) (*registry.Registration, error) {
	return NewShortCircuitInterceptor(evaluator).Attach(b, key)
}
