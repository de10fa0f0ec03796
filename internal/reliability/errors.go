package reliability

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Circuit breaker errors
	ErrCircuitOpen     = errors.New("circuit breaker: circuit is open")
	ErrHalfOpenLimited = errors.New("circuit breaker: half-open probe limit reached")

	// Retry errors
	ErrNonRetryable = errors.New("retry: error is not retryable")
)

// CircuitOpenError is returned while a breaker rejects calls
type CircuitOpenError struct {
	Name     string
	State    State
	Failures int
	RetryAt  time.Time
}

func (e *CircuitOpenError) Error() string {
	if e.State == StateHalfOpen {
		return fmt.Sprintf("circuit breaker %s half-open: probe limit reached", e.Name)
	}
	return fmt.Sprintf("circuit breaker %s open after %d failures, retry at %s",
		e.Name, e.Failures, e.RetryAt.Format(time.RFC3339))
}

func (e *CircuitOpenError) Unwrap() error {
	if e.State == StateHalfOpen {
		return ErrHalfOpenLimited
	}
	return ErrCircuitOpen
}

// RetryableError marks whether an error may be retried
type RetryableError struct {
	Err       error
	Retryable bool
}

func (r RetryableError) Error() string {
	return r.Err.Error()
}

// IsRetryable reports the classification
func (r RetryableError) IsRetryable() bool {
	return r.Retryable
}

func (r RetryableError) Unwrap() error {
	return r.Err
}

// Permanent marks err as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return RetryableError{Err: err, Retryable: false}
}

// IsRetryable classifies err. Errors are retryable unless they wrap
// ErrNonRetryable, an open circuit, or report IsRetryable() == false.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNonRetryable) || errors.Is(err, ErrCircuitOpen) {
		return false
	}

	var r interface{ IsRetryable() bool }
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return true
}
