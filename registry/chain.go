package registry

import (
	"reflect"

	"github.com/google/uuid"
)

// entry is one registered listener
type entry struct {
	id       string
	listener Listener
	ident    any
}

func newEntry(l Listener) *entry {
	e := &entry{
		id:       uuid.New().String(),
		listener: l,
	}
	e.ident = identity(l, e)
	return e
}

// identity returns the key entries are deduplicated by. Pointer-backed
// listeners compare by pointer; anything else is unique per registration.
func identity(l Listener, e *entry) any {
	if reflect.ValueOf(l).Kind() == reflect.Pointer {
		return l
	}
	return e
}

// chain is the ordered listener set of one (type, kind, key, priority) bucket
type chain struct {
	entries []*entry
}

// add appends l unless an equal listener is already present, in which case the existing entry is returned
func (c *chain) add(l Listener) (*entry, bool) {
	e := newEntry(l)
	for _, existing := range c.entries {
		if existing.ident == e.ident {
			return existing, false
		}
	}
	c.entries = append(c.entries, e)
	return e, true
}

// remove deletes e, reporting whether it was present
func (c *chain) remove(e *entry) bool {
	for i, existing := range c.entries {
		if existing == e {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (c *chain) len() int {
	return len(c.entries)
}
