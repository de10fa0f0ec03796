package luahook

import (
	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// Property registers s as a property hook. The function receives the read
// value and the member key and its first result replaces the value.
func Property(b *hooks.Builder, key contracts.Key, s *Script) (*registry.Registration, error) {
	if s == nil {
		return nil, contracts.ErrNilListener
	}
	return b.Property(key, func(_ contracts.Instance, value any) (any, error) {
		return s.Call1(value, key)
	})
}

// Params registers s as a params transform. The function receives the call
// arguments and returns the new ones; returning nothing keeps them.
func Params(b *hooks.Builder, key contracts.Key, s *Script) (*registry.Registration, error) {
	if s == nil {
		return nil, contracts.ErrNilListener
	}
	return b.Params(key, func(_ contracts.Instance, args []any) ([]any, error) {
		out, err := s.Call(args...)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return args, nil
		}
		return out, nil
	})
}

// Result registers s as a result transform. The function receives the
// settled result and returns the replacement.
func Result(b *hooks.Builder, key contracts.Key, s *Script) (*registry.Registration, error) {
	if s == nil {
		return nil, contracts.ErrNilListener
	}
	return b.Result(key, func(_ contracts.Instance, result any) (any, error) {
		return s.Call1(result)
	})
}
