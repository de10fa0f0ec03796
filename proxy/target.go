package proxy

import "github.com/glimte/hookable-go/contracts"

// Target is the raw member storage an Object intercepts
type Target interface {
	Get(key contracts.Key) (any, error)
	Set(key contracts.Key, value any) error
}

// Keyed is implemented by targets that can enumerate their members
type Keyed interface {
	Keys() []contracts.Key
}
