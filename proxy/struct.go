package proxy

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/glimte/hookable-go/contracts"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Struct is a reflective target over a pointer to a struct. Exported fields
// are members by name; exported methods are callable members.
type Struct struct {
	ptr  reflect.Value
	elem reflect.Value
}

// NewStruct wraps ptr, which must be a non-nil pointer to a struct
func NewStruct(ptr any) (*Struct, error) {
	v := reflect.ValueOf(ptr)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, contracts.ErrNilTarget
	}
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hookable: struct target requires a pointer to struct, got %T", ptr)
	}
	return &Struct{ptr: v, elem: v.Elem()}, nil
}

// Value returns the wrapped pointer
func (s *Struct) Value() any {
	return s.ptr.Interface()
}

func (s *Struct) name() string {
	return s.elem.Type().Name()
}

func (s *Struct) field(key contracts.Key) (reflect.Value, bool) {
	name, ok := key.(string)
	if !ok {
		return reflect.Value{}, false
	}
	sf, ok := s.elem.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	f, err := s.elem.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}

// Get implements Target
func (s *Struct) Get(key contracts.Key) (any, error) {
	if f, ok := s.field(key); ok {
		return f.Interface(), nil
	}
	if name, ok := key.(string); ok {
		if m := s.ptr.MethodByName(name); m.IsValid() {
			return methodFunc(name, m), nil
		}
	}
	return nil, &contracts.MemberNotFoundError{Target: s.name(), Key: key}
}

// Set implements Target
func (s *Struct) Set(key contracts.Key, value any) error {
	f, ok := s.field(key)
	if !ok {
		return &contracts.MemberNotFoundError{Target: s.name(), Key: key}
	}
	if !f.CanSet() {
		return fmt.Errorf("hookable: field %s of %s cannot be set", key, s.name())
	}
	v, err := convert(value, f.Type())
	if err != nil {
		return fmt.Errorf("hookable: field %s of %s: %w", key, s.name(), err)
	}
	f.Set(v)
	return nil
}

// Keys implements Keyed: exported fields in declaration order, then exported methods
func (s *Struct) Keys() []contracts.Key {
	t := s.elem.Type()
	var keys []contracts.Key
	for i := 0; i < t.NumField(); i++ {
		if sf := t.Field(i); sf.IsExported() {
			keys = append(keys, sf.Name)
		}
	}
	pt := s.ptr.Type()
	for i := 0; i < pt.NumMethod(); i++ {
		keys = append(keys, pt.Method(i).Name)
	}
	return keys
}

// methodFunc adapts a bound reflect method to a contracts.Func. A trailing
// error result becomes the returned error; several other results are
// returned as []any.
func methodFunc(name string, m reflect.Value) contracts.Func {
	mt := m.Type()
	return func(args ...any) (any, error) {
		in, err := callArgs(mt, args)
		if err != nil {
			return nil, fmt.Errorf("hookable: method %s: %w", name, err)
		}

		out := m.Call(in)

		var callErr error
		if n := len(out); n > 0 && mt.Out(n-1) == errorType {
			if e := out[n-1]; !e.IsNil() {
				callErr = e.Interface().(error)
			}
			out = out[:n-1]
		}

		switch len(out) {
		case 0:
			return nil, callErr
		case 1:
			return out[0].Interface(), callErr
		default:
			values := make([]any, len(out))
			for i, v := range out {
				values[i] = v.Interface()
			}
			return values, callErr
		}
	}
}

func callArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("want at least %d arguments, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("want %d arguments, got %d", fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if i < fixed {
			pt = mt.In(i)
		} else {
			pt = mt.In(fixed).Elem()
		}
		v, err := convert(a, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

var errNotAssignable = errors.New("value is not assignable")

// convert coerces value to t. Numeric kinds convert between each other when
// the value fits the target kind; anything else must be assignable.
func convert(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil to %s", errNotAssignable, t)
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		if !fits(v, t) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows or truncates to %s", errNotAssignable, value, t)
		}
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s to %s", errNotAssignable, v.Type(), t)
}

// fits reports whether numeric v converts to t without wrapping or losing a
// fractional part
func fits(v reflect.Value, t reflect.Type) bool {
	zero := reflect.Zero(t)

	switch {
	case isInt(t.Kind()):
		switch {
		case isInt(v.Kind()):
			return !zero.OverflowInt(v.Int())
		case isUint(v.Kind()):
			u := v.Uint()
			return u <= math.MaxInt64 && !zero.OverflowInt(int64(u))
		default:
			f := v.Float()
			return f == math.Trunc(f) && f >= math.MinInt64 && f < -math.MinInt64 && !zero.OverflowInt(int64(f))
		}

	case isUint(t.Kind()):
		switch {
		case isInt(v.Kind()):
			n := v.Int()
			return n >= 0 && !zero.OverflowUint(uint64(n))
		case isUint(v.Kind()):
			return !zero.OverflowUint(v.Uint())
		default:
			f := v.Float()
			return f == math.Trunc(f) && f >= 0 && f < 1<<64 && !zero.OverflowUint(uint64(f))
		}

	default:
		if isFloat(v.Kind()) {
			return !zero.OverflowFloat(v.Float())
		}
		return true
	}
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}
