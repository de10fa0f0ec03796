package contracts

import (
	"errors"
	"fmt"
)

var (
	// Type errors
	ErrProtectedType = errors.New("hookable: base type is protected")
	ErrNilType       = errors.New("hookable: type cannot be nil")

	// Member errors
	ErrInvalidMemberKey = errors.New("hookable: invalid member key")
	ErrNotCallable      = errors.New("hookable: member is not callable")
	ErrMemberNotFound   = errors.New("hookable: member not found")

	// Registration errors
	ErrNilListener = errors.New("hookable: listener cannot be nil")
	ErrInvalidKind = errors.New("hookable: event kind cannot be empty")
	ErrNilTarget   = errors.New("hookable: target cannot be nil")
)

// ProtectedTypeError is returned when the base type is hooked, bound or constructed
type ProtectedTypeError struct {
	Op string
}

func (e *ProtectedTypeError) Error() string {
	return fmt.Sprintf("hookable: %s: type %s cannot be hooked or constructed directly", e.Op, Base.Name())
}

func (e *ProtectedTypeError) Unwrap() error {
	return ErrProtectedType
}

// InvalidMemberKeyError reports a key that is neither a string nor a *Symbol
type InvalidMemberKeyError struct {
	Key any
}

func (e *InvalidMemberKeyError) Error() string {
	return fmt.Sprintf("hookable: invalid member key %v (%T): want string or *Symbol", e.Key, e.Key)
}

func (e *InvalidMemberKeyError) Unwrap() error {
	return ErrInvalidMemberKey
}

// NotCallableError reports a callable hook attached to, or resolved on, a data member
type NotCallableError struct {
	Type string
	Key  Key
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("hookable: member %s of %s is not callable", FormatKey(e.Key), e.Type)
}

func (e *NotCallableError) Unwrap() error {
	return ErrNotCallable
}

// MemberNotFoundError is returned by targets that have a closed set of members
type MemberNotFoundError struct {
	Target string
	Key    Key
}

func (e *MemberNotFoundError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("hookable: %s has no member %s", e.Target, FormatKey(e.Key))
	}
	return fmt.Sprintf("hookable: no member %s", FormatKey(e.Key))
}

func (e *MemberNotFoundError) Unwrap() error {
	return ErrMemberNotFound
}
