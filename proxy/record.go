package proxy

import (
	"sort"
	"sync"

	"github.com/glimte/hookable-go/contracts"
)

// Record is a map-backed target. Members may hold data or contracts.Method
// values; a missing member reads as nil.
type Record struct {
	mu     sync.RWMutex
	fields map[contracts.Key]any
	order  []contracts.Key
}

// NewRecord creates a record seeded with fields, ordered by name
func NewRecord(fields map[string]any) *Record {
	r := &Record{fields: make(map[contracts.Key]any, len(fields))}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		r.put(k, fields[k])
	}
	return r
}

// Put sets a member and returns the record for chaining
func (r *Record) Put(key contracts.Key, value any) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(key, value)
	return r
}

func (r *Record) put(key contracts.Key, value any) {
	if _, ok := r.fields[key]; !ok {
		r.order = append(r.order, key)
	}
	r.fields[key] = value
}

// Get implements Target
func (r *Record) Get(key contracts.Key) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fields[key], nil
}

// Set implements Target
func (r *Record) Set(key contracts.Key, value any) error {
	if err := contracts.ValidateKey(key); err != nil {
		return err
	}
	r.Put(key, value)
	return nil
}

// Keys implements Keyed in first-insertion order
func (r *Record) Keys() []contracts.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]contracts.Key(nil), r.order...)
}
