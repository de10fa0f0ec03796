package schema

import (
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/interceptors"
	"github.com/glimte/hookable-go/internal/journal"
)

// AttachOption configures Attach
type AttachOption func(*interceptors.ValidationInterceptor)

// WithJournal records rejected writes in j
func WithJournal(j journal.Journal) AttachOption {
	return func(i *interceptors.ValidationInterceptor) {
		i.WithJournal(j)
	}
}

// Attach registers v as a set listener for every member its schema
// declares. On failure the listeners already registered are removed.
func Attach(b *hooks.Builder, v *Validator, options ...AttachOption) (interceptors.Registrations, error) {
	keys := v.Schema().Keys()
	i := interceptors.NewValidationInterceptor(v)
	for _, opt := range options {
		opt(i)
	}

	regs := make(interceptors.Registrations, 0, len(keys))
	for _, key := range keys {
		reg, err := interceptors.Attach(b, key, i)
		if err != nil {
			regs.Unregister()
			return nil, err
		}
		regs = append(regs, reg...)
	}
	return regs, nil
}
