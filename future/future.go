// Package future provides asynchronous results for hooked callables.
//
// A Future settles exactly once with a value or an error. Then chains a
// transformation that runs after the future settles; a transformation that
// returns another *Future is flattened, so chains compose like promises.
package future

import (
	"context"
	"fmt"
	"sync"
)

// PanicError is the rejection of a future whose function panicked
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("future: panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Future is the result of an asynchronous operation
type Future struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns a future for its result.
// A *Future returned by fn is awaited before this future settles. A panic in
// fn rejects the future with a *PanicError.
func Go(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(nil, &PanicError{Value: r})
			}
		}()
		f.settle(flatten(fn()))
	}()
	return f
}

// Resolve returns a future already settled with v. If v is a *Future it is returned as is.
func Resolve(v any) *Future {
	if f, ok := v.(*Future); ok && f != nil {
		return f
	}
	f := newFuture()
	f.settle(v, nil)
	return f
}

// Reject returns a future already settled with err
func Reject(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// Is reports whether v is a future
func Is(v any) bool {
	f, ok := v.(*Future)
	return ok && f != nil
}

func (f *Future) settle(value any, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles or ctx is done
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until the future settles
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.value, f.err
}

// Then returns a future settled with fn applied to this future's value.
// Rejections skip fn and propagate unchanged.
func (f *Future) Then(fn func(value any) (any, error)) *Future {
	return Go(func() (any, error) {
		v, err := f.Wait()
		if err != nil {
			return nil, err
		}
		return fn(v)
	})
}

// flatten waits out nested futures
func flatten(v any, err error) (any, error) {
	for err == nil {
		next, ok := v.(*Future)
		if !ok || next == nil {
			break
		}
		v, err = next.Wait()
	}
	return v, err
}

// Finally returns a future that settles like this one after fn has observed
// the outcome. A panic in fn rejects it with a *PanicError.
func (f *Future) Finally(fn func(value any, err error)) *Future {
	next := newFuture()
	go func() {
		v, err := f.Wait()
		defer func() {
			if r := recover(); r != nil {
				next.settle(nil, &PanicError{Value: r})
			}
		}()
		fn(v, err)
		next.settle(v, err)
	}()
	return next
}
