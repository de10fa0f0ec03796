package interceptors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/internal/journal"
	"github.com/glimte/hookable-go/registry"
)

// Validator checks a value about to be written to a member
type Validator interface {
	Validate(self contracts.Instance, key contracts.Key, value any) error
}

// ValidatorFunc is a function adapter for Validator
type ValidatorFunc func(self contracts.Instance, key contracts.Key, value any) error

// Validate implements Validator
func (f ValidatorFunc) Validate(self contracts.Instance, key contracts.Key, value any) error {
	return f(self, key, value)
}

// ValidationError reports a rejected write
type ValidationError struct {
	Type string
	Key  contracts.Key
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s.%s: %v", e.Type, keyName(e.Key), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationInterceptor rejects writes the validator refuses
type ValidationInterceptor struct {
	validator Validator
	journal   journal.Journal
	logger    *slog.Logger
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(validator Validator) *ValidationInterceptor {
	return &ValidationInterceptor{validator: validator, logger: slog.Default()}
}

// WithLogger sets the logger used to report journal failures
func (i *ValidationInterceptor) WithLogger(logger *slog.Logger) *ValidationInterceptor {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// WithJournal records rejected writes in j
func (i *ValidationInterceptor) WithJournal(j journal.Journal) *ValidationInterceptor {
	i.journal = j
	return i
}

// Attach implements Interceptor
func (i *ValidationInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if i.validator == nil {
		return nil, errors.New("validation interceptor: validator cannot be nil")
	}
	return b.Set(key, func(hc *registry.HookCtx) error {
		err := i.validator.Validate(hc.Receiver, hc.Key, hc.Value)
		if err == nil {
			return nil
		}

		vErr := &ValidationError{Type: hc.Type.Name(), Key: hc.Key, Err: err}
		if i.journal != nil {
			member := keyName(hc.Key)
			if jErr := i.journal.RecordError(context.Background(), vErr.Type, member, err); jErr != nil {
				i.logger.Warn("failed to journal rejected write",
					"type", vErr.Type,
					"key", member,
					"error", jErr,
				)
			}
		}
		return vErr
	})
}

// Name implements Interceptor
func (i *ValidationInterceptor) Name() string {
	return "ValidationInterceptor"
}

// Validation attaches a ValidationInterceptor to key
func Validation(b *hooks.Builder, key contracts.Key, validator Validator) (*registry.Registration, error) {
	return NewValidationInterceptor(validator).Attach(b, key)
}
