package reliability

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/glimte/hookable-go/contracts"
)

// DefaultJitter spreads backoff delays by 15% in either direction
const DefaultJitter = 0.15

// Attempt is one failed call of a retried member
type Attempt struct {
	// Number counts calls from 1
	Number int
	Err    error
}

// RetryPolicy decides whether a member call is made again after it failed
type RetryPolicy interface {
	// Next returns the wait before the next call, or false to give up
	Next(failed Attempt) (time.Duration, bool)

	// Retries is the most calls made after the first one
	Retries() int
}

// Backoff grows the wait by Factor after every failed call, up to Cap
type Backoff struct {
	Base   time.Duration
	Cap    time.Duration
	Factor float64
	Limit  int

	// Jitter is the fraction each wait is randomly spread by; zero disables it
	Jitter float64
}

// NewExponentialBackoff creates a backoff allowing retries calls after the
// first, with DefaultJitter
func NewExponentialBackoff(base, cap time.Duration, factor float64, retries int) *Backoff {
	return &Backoff{
		Base:   base,
		Cap:    cap,
		Factor: factor,
		Limit:  retries,
		Jitter: DefaultJitter,
	}
}

// Next implements RetryPolicy
func (b *Backoff) Next(failed Attempt) (time.Duration, bool) {
	if failed.Number > b.Limit || !IsRetryable(failed.Err) {
		return 0, false
	}
	return b.Wait(failed.Number), true
}

// Retries implements RetryPolicy
func (b *Backoff) Retries() int {
	return b.Limit
}

// Wait returns the delay after the n-th failed call
func (b *Backoff) Wait(n int) time.Duration {
	d := float64(b.Base) * math.Pow(b.Factor, float64(n-1))
	d = math.Min(d, float64(b.Cap))
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * b.Jitter * d
	}
	return time.Duration(d)
}

// Fixed waits the same delay before every retry
type Fixed struct {
	Delay time.Duration
	Limit int
}

// NewFixedDelay creates a fixed policy allowing retries calls after the first
func NewFixedDelay(delay time.Duration, retries int) *Fixed {
	return &Fixed{Delay: delay, Limit: retries}
}

// Next implements RetryPolicy
func (f *Fixed) Next(failed Attempt) (time.Duration, bool) {
	if failed.Number > f.Limit || !IsRetryable(failed.Err) {
		return 0, false
	}
	return f.Delay, true
}

// Retries implements RetryPolicy
func (f *Fixed) Retries() int {
	return f.Limit
}

// Call invokes fn with args until it succeeds or policy gives up, and returns
// the last error unchanged. observe, when set, sees every failed attempt.
// ctx bounds the waits between calls.
func Call(ctx context.Context, policy RetryPolicy, fn contracts.Func, args []any, observe func(Attempt)) (any, error) {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := fn(args...)
		if err == nil {
			return v, nil
		}

		failed := Attempt{Number: n, Err: err}
		if observe != nil {
			observe(failed)
		}

		delay, again := policy.Next(failed)
		if !again {
			return nil, err
		}
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
