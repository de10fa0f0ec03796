package contracts

// Func is a callable member value, already bound to its receiver
type Func func(args ...any) (any, error)

// Method is an unbound callable member. The interception layer binds it to
// the intercepted instance, so member reads inside the body are hooked too.
type Method func(self Instance, args ...any) (any, error)

// Bind returns m bound to self
func (m Method) Bind(self Instance) Func {
	return func(args ...any) (any, error) {
		return m(self, args...)
	}
}

// Instance is the explicit member-access surface of an intercepted object
type Instance interface {
	// Type returns the owning type the instance dispatches through
	Type() *Type

	// Get reads a member through the get chain
	Get(key Key) (any, error)

	// Set writes a member through the set chain
	Set(key Key, value any) error

	// Call resolves a callable member through the get chain and invokes it
	Call(key Key, args ...any) (any, error)
}

// AsFunc converts a bound callable value to a Func
func AsFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(args ...any) (any, error):
		return Func(fn), fn != nil
	case interface{ Func() Func }:
		return fn.Func(), true
	default:
		return nil, false
	}
}

// IsCallable reports whether v is a bound callable value
func IsCallable(v any) bool {
	_, ok := AsFunc(v)
	return ok
}
