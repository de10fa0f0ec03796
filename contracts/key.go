package contracts

import "fmt"

// Key identifies a property or method. Valid keys are strings and *Symbol values.
type Key = any

// Symbol is a unique member key compared by identity, never by description
type Symbol struct {
	description string
}

// NewSymbol creates a new symbol; two symbols with the same description are distinct keys
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

// Description returns the symbol description
func (s *Symbol) Description() string {
	return s.description
}

// String implements fmt.Stringer
func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// ValidateKey checks that key can be used as a member key
func ValidateKey(key Key) error {
	switch k := key.(type) {
	case string:
		return nil
	case *Symbol:
		if k == nil {
			return &InvalidMemberKeyError{Key: key}
		}
		return nil
	default:
		return &InvalidMemberKeyError{Key: key}
	}
}

// FormatKey renders a key for logs and error messages
func FormatKey(key Key) string {
	switch k := key.(type) {
	case string:
		return fmt.Sprintf("%q", k)
	case *Symbol:
		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}
