package interceptors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/internal/journal"
	"github.com/glimte/hookable-go/proxy"
	"github.com/glimte/hookable-go/registry"
)

// AuditInterceptor journals every committed write to a member with its
// previous raw value and the value the set chain produced.
type AuditInterceptor struct {
	journal journal.Journal
	logger  *slog.Logger
}

// NewAuditInterceptor creates a new audit interceptor
func NewAuditInterceptor(j journal.Journal, logger *slog.Logger) *AuditInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditInterceptor{journal: j, logger: logger}
}

// Attach implements Interceptor
func (i *AuditInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if i.journal == nil {
		return nil, errors.New("audit interceptor: journal cannot be nil")
	}
	return b.Set(key, func(hc *registry.HookCtx) error {
		before := rawValue(hc.Receiver, hc.Key)
		typ, member := hc.Type.Name(), keyName(hc.Key)

		hc.OnCommit(func() {
			if err := i.journal.RecordChange(context.Background(), typ, member, journal.OperationSet, before, hc.Value); err != nil {
				i.logger.Warn("failed to journal member write",
					"type", typ,
					"key", member,
					"error", err,
				)
			}
		})
		return nil
	})
}

// rawValue reads the unhooked current value when the receiver exposes its target
func rawValue(self contracts.Instance, key contracts.Key) any {
	o, ok := self.(interface{ Target() proxy.Target })
	if !ok {
		return nil
	}
	v, err := o.Target().Get(key)
	if err != nil {
		return nil
	}
	return v
}

// Name implements Interceptor
func (i *AuditInterceptor) Name() string {
	return "AuditInterceptor"
}

// Audit attaches an AuditInterceptor to key
func Audit(b *hooks.Builder, key contracts.Key, j journal.Journal) (*registry.Registration, error) {
	return NewAuditInterceptor(j, nil).Attach(b, key)
}
