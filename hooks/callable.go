package hooks

import (
	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/pipeline"
	"github.com/glimte/hookable-go/registry"
)

// Params rewrites the arguments of a method before it runs
func (b *Builder) Params(key contracts.Key, fn pipeline.ParamsFunc) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.callable(contracts.KindParams, key, func(p *pipeline.Pipeline) *pipeline.Pipeline {
		return p.Params(fn)
	})
}

// Method wraps a method; fn decides whether and how the original runs
func (b *Builder) Method(key contracts.Key, fn pipeline.AroundFunc) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.callable(contracts.KindMethod, key, func(p *pipeline.Pipeline) *pipeline.Pipeline {
		return p.Around(fn)
	})
}

// Result rewrites the return value of a method, after resolution when it is a future
func (b *Builder) Result(key contracts.Key, fn pipeline.ResultFunc) (*registry.Registration, error) {
	if fn == nil {
		return nil, contracts.ErrNilListener
	}
	return b.callable(contracts.KindResult, key, func(p *pipeline.Pipeline) *pipeline.Pipeline {
		return p.Result(fn)
	})
}

// Before runs advice before a method
func (b *Builder) Before(key contracts.Key, advice pipeline.Advice) (*registry.Registration, error) {
	if advice == nil {
		return nil, contracts.ErrNilListener
	}
	return b.callable(contracts.KindBefore, key, func(p *pipeline.Pipeline) *pipeline.Pipeline {
		return p.Before(advice)
	})
}

// After runs advice after a method, keeping its return value
func (b *Builder) After(key contracts.Key, advice pipeline.Advice) (*registry.Registration, error) {
	if advice == nil {
		return nil, contracts.ErrNilListener
	}
	return b.callable(contracts.KindAfter, key, func(p *pipeline.Pipeline) *pipeline.Pipeline {
		return p.After(advice)
	})
}

func (b *Builder) callable(kind contracts.Kind, key contracts.Key, wrap func(*pipeline.Pipeline) *pipeline.Pipeline) (*registry.Registration, error) {
	if err := b.typ.CheckCallable(key); err != nil {
		return nil, err
	}

	reg, err := b.On(kind, key, registry.ListenerFunc(func(hc *registry.HookCtx) error {
		p, ok := pipeline.From(hc.Value, hc.Receiver, hc.Key)
		if !ok {
			return &contracts.NotCallableError{Type: hc.Type.Name(), Key: hc.Key}
		}
		hc.Value = wrap(p)
		return nil
	}))
	if err != nil {
		return nil, err
	}

	b.logger.Debug("attached callable hook",
		"type", b.typ.Name(),
		"kind", kind,
		"key", contracts.FormatKey(key),
		"priority", b.priority,
	)
	return reg, nil
}
