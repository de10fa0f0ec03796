package contracts

// Kind tags the event a listener is registered for. The set is open: builder
// sugar may introduce private kinds without any registry change.
type Kind string

const (
	// Primitive kinds
	KindGet Kind = "get"
	KindSet Kind = "set"

	// Derived kinds applied to callable members after the get chain
	KindMethod Kind = "method"
	KindParams Kind = "params"
	KindResult Kind = "result"
	KindBefore Kind = "before"
	KindAfter  Kind = "after"
)

// CallableKinds returns the derived kinds in the order they are applied to a callable member
func CallableKinds() []Kind {
	return []Kind{KindMethod, KindParams, KindResult, KindBefore, KindAfter}
}

// IsCallableKind reports whether k is one of the derived callable kinds
func IsCallableKind(k Kind) bool {
	for _, c := range CallableKinds() {
		if c == k {
			return true
		}
	}
	return false
}

// Validate checks that the kind is usable as a registry key
func (k Kind) Validate() error {
	if k == "" {
		return ErrInvalidKind
	}
	return nil
}
