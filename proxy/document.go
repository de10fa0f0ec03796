package proxy

import (
	"errors"
	"sync"

	"github.com/glimte/hookable-go/contracts"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidDocument is returned for malformed JSON
var ErrInvalidDocument = errors.New("hookable: invalid JSON document")

// Document is a JSON target. Member keys are gjson/sjson paths such as
// "user.name" or "tags.0"; a missing path reads as nil.
type Document struct {
	mu  sync.RWMutex
	raw []byte
}

// NewDocument creates a document target over a copy of raw
func NewDocument(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidDocument
	}
	return &Document{raw: append([]byte(nil), raw...)}, nil
}

func path(key contracts.Key) (string, error) {
	p, ok := key.(string)
	if !ok || p == "" {
		return "", &contracts.InvalidMemberKeyError{Key: key}
	}
	return p, nil
}

// Get implements Target
func (d *Document) Get(key contracts.Key) (any, error) {
	p, err := path(key)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	res := gjson.GetBytes(d.raw, p)
	if !res.Exists() {
		return nil, nil
	}
	return res.Value(), nil
}

// Set implements Target
func (d *Document) Set(key contracts.Key, value any) error {
	p, err := path(key)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := sjson.SetBytes(d.raw, p, value)
	if err != nil {
		return err
	}
	d.raw = raw
	return nil
}

// Delete removes the member at key
func (d *Document) Delete(key contracts.Key) error {
	p, err := path(key)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := sjson.DeleteBytes(d.raw, p)
	if err != nil {
		return err
	}
	d.raw = raw
	return nil
}

// Keys implements Keyed with the top-level object keys
func (d *Document) Keys() []contracts.Key {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var keys []contracts.Key
	gjson.ParseBytes(d.raw).ForEach(func(k, _ gjson.Result) bool {
		if k.Type == gjson.String {
			keys = append(keys, k.String())
		}
		return true
	})
	return keys
}

// Bytes returns a copy of the current document
func (d *Document) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]byte(nil), d.raw...)
}
