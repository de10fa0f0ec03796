package reliability

import (
	"sync"
	"time"
)

// State is the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// StateChangeFunc observes breaker transitions. It is called with the
// breaker lock released.
type StateChangeFunc func(name string, from, to State)

// CircuitBreaker fails calls fast after consecutive failures
type CircuitBreaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time

	name             string
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	halfOpenLimit    int
	now              func() time.Time
	onChange         StateChangeFunc
}

// CircuitBreakerOption configures a CircuitBreaker
type CircuitBreakerOption func(*CircuitBreaker)

// WithName names the breaker in errors and notifications
func WithName(name string) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.name = name
	}
}

// WithFailureThreshold sets the consecutive failures that open the circuit
func WithFailureThreshold(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.failureThreshold = n
	}
}

// WithSuccessThreshold sets the half-open successes that close the circuit
func WithSuccessThreshold(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.successThreshold = n
	}
}

// WithCooldown sets how long the circuit stays open
func WithCooldown(d time.Duration) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.cooldown = d
	}
}

// WithHalfOpenLimit sets the concurrent probes allowed while half-open
func WithHalfOpenLimit(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.halfOpenLimit = n
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		if now != nil {
			cb.now = now
		}
	}
}

// WithStateChange registers a transition observer
func WithStateChange(fn StateChangeFunc) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.onChange = fn
	}
}

// NewCircuitBreaker creates a closed breaker
func NewCircuitBreaker(options ...CircuitBreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:             "default",
		failureThreshold: 5,
		successThreshold: 2,
		cooldown:         30 * time.Second,
		halfOpenLimit:    1,
		now:              time.Now,
	}
	for _, opt := range options {
		opt(cb)
	}
	return cb
}

// Name returns the breaker name
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// State returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Allow reports whether a call may proceed. Every nil return must be
// followed by exactly one Record.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()

	var from State
	changed := false

	switch cb.state {
	case StateOpen:
		retryAt := cb.openedAt.Add(cb.cooldown)
		if cb.now().Before(retryAt) {
			err := &CircuitOpenError{Name: cb.name, State: StateOpen, Failures: cb.failures, RetryAt: retryAt}
			cb.mu.Unlock()
			return err
		}
		from, changed = cb.transition(StateHalfOpen)
		cb.probes = 1
	case StateHalfOpen:
		if cb.probes >= cb.halfOpenLimit {
			err := &CircuitOpenError{Name: cb.name, State: StateHalfOpen, Failures: cb.failures}
			cb.mu.Unlock()
			return err
		}
		cb.probes++
	}

	cb.mu.Unlock()
	if changed {
		cb.notify(from, StateHalfOpen)
	}
	return nil
}

// Record reports the outcome of an allowed call
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()

	from := cb.state
	to := cb.state
	changed := false

	if err != nil {
		cb.failures++
		cb.successes = 0
		switch {
		case cb.state == StateHalfOpen,
			cb.state == StateClosed && cb.failures >= cb.failureThreshold:
			cb.openedAt = cb.now()
			cb.probes = 0
			from, changed = cb.transition(StateOpen)
			to = StateOpen
		}
	} else {
		switch cb.state {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.successes++
			if cb.probes > 0 {
				cb.probes--
			}
			if cb.successes >= cb.successThreshold {
				cb.failures = 0
				cb.successes = 0
				cb.probes = 0
				from, changed = cb.transition(StateClosed)
				to = StateClosed
			}
		}
	}

	cb.mu.Unlock()
	if changed {
		cb.notify(from, to)
	}
}

// Execute runs fn when the breaker allows it and records the outcome
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.Allow(); err != nil {
		return err
	}
	err := fn()
	cb.Record(err)
	return err
}

// Reset closes the circuit and clears the counters
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from, changed := cb.transition(StateClosed)
	cb.failures, cb.successes, cb.probes = 0, 0, 0
	cb.mu.Unlock()
	if changed {
		cb.notify(from, StateClosed)
	}
}

// transition must be called with the lock held
func (cb *CircuitBreaker) transition(to State) (State, bool) {
	from := cb.state
	cb.state = to
	return from, from != to
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.onChange != nil {
		cb.onChange(cb.name, from, to)
	}
}
