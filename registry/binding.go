package registry

import (
	"sync"

	"github.com/glimte/hookable-go/contracts"
)

// Process-wide default container used by unbound types
var defaultContainer = NewContainer()

var (
	bindings  = make(map[*contracts.Type]*Container)
	bindingMu sync.RWMutex
)

// Default returns the process-wide container
func Default() *Container {
	return defaultContainer
}

// Bind associates t with c. A nil container removes the binding.
func Bind(t *contracts.Type, c *Container) error {
	if t == nil {
		return contracts.ErrNilType
	}
	if t.IsBase() {
		return &contracts.ProtectedTypeError{Op: "bind"}
	}

	bindingMu.Lock()
	defer bindingMu.Unlock()

	if c == nil {
		delete(bindings, t)
		return nil
	}
	bindings[t] = c
	return nil
}

// ContainerFor returns the container bound to t or its nearest bound ancestor, else Default
func ContainerFor(t *contracts.Type) *Container {
	bindingMu.RLock()
	defer bindingMu.RUnlock()

	for cur := t; cur != nil; cur = cur.Parent() {
		if c, ok := bindings[cur]; ok {
			return c
		}
	}
	return defaultContainer
}
