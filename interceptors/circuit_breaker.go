package interceptors

import (
	"errors"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/internal/reliability"
	"github.com/glimte/hookable-go/registry"
)

// CircuitBreakerInterceptor fails calls fast while its breaker is open.
// Async results count once they settle.
type CircuitBreakerInterceptor struct {
	breaker *reliability.CircuitBreaker
}

// NewCircuitBreakerInterceptor creates a new circuit breaker interceptor
func NewCircuitBreakerInterceptor(breaker *reliability.CircuitBreaker) *CircuitBreakerInterceptor {
	return &CircuitBreakerInterceptor{breaker: breaker}
}

// Attach implements Interceptor
func (i *CircuitBreakerInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if i.breaker == nil {
		return nil, errors.New("circuit breaker interceptor: breaker cannot be nil")
	}
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		if err := i.breaker.Allow(); err != nil {
			return nil, err
		}
		result, err := original(args...)
		return settle(result, err, func(_ any, err error) {
			i.breaker.Record(err)
		})
	})
}

// Name implements Interceptor
func (i *CircuitBreakerInterceptor) Name() string {
	return "CircuitBreakerInterceptor"
}

// CircuitBreaker attaches a CircuitBreakerInterceptor to key
func CircuitBreaker(b *hooks.Builder, key contracts.Key, breaker *reliability.CircuitBreaker) (*registry.Registration, error) {
	return NewCircuitBreakerInterceptor(breaker).Attach(b, key)
}
