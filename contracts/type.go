package contracts

import (
	"errors"
	"fmt"
)

// Type is an owning type: the identity under which hooks are registered.
// A Type has exactly one parent, so lineages form a single-inheritance chain
// that always ends at Base. Types are immutable once created.
type Type struct {
	name     string
	parent   *Type
	excluded map[Key]struct{}
	methods  map[Key]struct{}
}

// Base is the sentinel root of every lineage. It exists only to be extended:
// it can never be hooked, bound to a container, or constructed directly.
var Base = &Type{name: "Hookable"}

// TypeOption configures a Type at creation
type TypeOption func(*Type) error

// Exclude declares member keys that bypass interception entirely
func Exclude(keys ...Key) TypeOption {
	return func(t *Type) error {
		for _, k := range keys {
			if err := ValidateKey(k); err != nil {
				return err
			}
			t.excluded[k] = struct{}{}
		}
		return nil
	}
}

// DeclareMethods declares the callable members of a type so callable hooks can be validated at registration
func DeclareMethods(keys ...Key) TypeOption {
	return func(t *Type) error {
		for _, k := range keys {
			if err := ValidateKey(k); err != nil {
				return err
			}
			t.methods[k] = struct{}{}
		}
		return nil
	}
}

// NewType creates a new owning type. A nil parent extends Base.
func NewType(name string, parent *Type, opts ...TypeOption) (*Type, error) {
	if name == "" {
		return nil, errors.New("hookable: type name cannot be empty")
	}
	if parent == nil {
		parent = Base
	}

	t := &Type{
		name:     name,
		parent:   parent,
		excluded: make(map[Key]struct{}),
		methods:  make(map[Key]struct{}),
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("failed to define type %s: %w", name, err)
		}
	}

	return t, nil
}

// MustNewType is like NewType but panics on error
func MustNewType(name string, parent *Type, opts ...TypeOption) *Type {
	t, err := NewType(name, parent, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the type name
func (t *Type) Name() string {
	return t.name
}

// Parent returns the parent type, or nil for Base
func (t *Type) Parent() *Type {
	return t.parent
}

// IsBase reports whether t is the sentinel base type
func (t *Type) IsBase() bool {
	return t == Base
}

// Is reports whether t is other or descends from it
func (t *Type) Is(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Lineage returns the ancestry of t, root-most first, ending with t itself.
// Base is never included.
func (t *Type) Lineage() []*Type {
	var chain []*Type
	for cur := t; cur != nil && !cur.IsBase(); cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Excludes reports whether key is exempt from interception on t or any ancestor
func (t *Type) Excludes(key Key) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if _, ok := cur.excluded[key]; ok {
			return true
		}
	}
	return false
}

// CheckCallable validates that key names a callable member. The check only
// fails when the lineage declares its methods and key is not among them.
func (t *Type) CheckCallable(key Key) error {
	declared := false
	for cur := t; cur != nil; cur = cur.parent {
		if len(cur.methods) == 0 {
			continue
		}
		declared = true
		if _, ok := cur.methods[key]; ok {
			return nil
		}
	}
	if declared {
		return &NotCallableError{Type: t.name, Key: key}
	}
	return nil
}

// String implements fmt.Stringer
func (t *Type) String() string {
	return t.name
}
