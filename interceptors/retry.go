package interceptors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/internal/reliability"
	"github.com/glimte/hookable-go/registry"
)

// RetryInterceptor retries failing synchronous calls. Rejected futures are
// not retried.
type RetryInterceptor struct {
	policy reliability.RetryPolicy
	logger *slog.Logger
}

// NewRetryInterceptor creates a new retry interceptor
func NewRetryInterceptor(policy reliability.RetryPolicy) *RetryInterceptor {
	return &RetryInterceptor{
		policy: policy,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the retry interceptor
func (r *RetryInterceptor) WithLogger(logger *slog.Logger) *RetryInterceptor {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Attach implements Interceptor
func (r *RetryInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if r.policy == nil {
		return nil, errors.New("retry interceptor: policy cannot be nil")
	}
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		return reliability.Call(context.Background(), r.policy, original, args, func(a reliability.Attempt) {
			r.logger.Debug("method call attempt failed",
				"type", typeName(self),
				"key", keyName(key),
				"attempt", a.Number,
				"error", a.Err,
			)
		})
	})
}

// Name implements Interceptor
func (r *RetryInterceptor) Name() string {
	return "RetryInterceptor"
}

// Retry attaches a RetryInterceptor to key
func Retry(b *hooks.Builder, key contracts.Key, policy reliability.RetryPolicy) (*registry.Registration, error) {
	return NewRetryInterceptor(policy).Attach(b, key)
}
