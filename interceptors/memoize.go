package interceptors

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// DefaultMemoizeEntries is the cache size used when none is given
const DefaultMemoizeEntries = 1024

type memoKey struct {
	self any
	key  contracts.Key
	args string
}

// MemoizeInterceptor caches method results per instance and arguments.
// Errors are never cached; a cached future is evicted if it rejects.
type MemoizeInterceptor struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[memoKey]any
	order      []memoKey
	hits       int64
	misses     int64
}

// NewMemoizeInterceptor creates a cache holding up to maxEntries results
func NewMemoizeInterceptor(maxEntries int) *MemoizeInterceptor {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoizeEntries
	}
	return &MemoizeInterceptor{
		maxEntries: maxEntries,
		entries:    make(map[memoKey]any),
	}
}

// Attach implements Interceptor
func (i *MemoizeInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		k, ok := cacheKey(self, key, args)
		if !ok {
			return original(args...)
		}

		if v, hit := i.lookup(k); hit {
			return v, nil
		}

		result, err := original(args...)
		if err != nil {
			return nil, err
		}
		i.store(k, result)

		if f, async := asFuture(result); async {
			f.Finally(func(_ any, err error) {
				if err != nil {
					i.evict(k)
				}
			})
		}
		return result, nil
	})
}

func cacheKey(self contracts.Instance, key contracts.Key, args []any) (memoKey, bool) {
	if self != nil && !reflect.TypeOf(self).Comparable() {
		return memoKey{}, false
	}
	return memoKey{self: self, key: key, args: argsKey(args)}, true
}

// argsKey renders args with their dynamic types so 1, int64(1) and 1.0 differ
func argsKey(args []any) string {
	var sb strings.Builder
	for n, a := range args {
		if n > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%T:%#v", a, a)
	}
	return sb.String()
}

func (i *MemoizeInterceptor) lookup(k memoKey) (any, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.entries[k]
	if ok {
		i.hits++
	} else {
		i.misses++
	}
	return v, ok
}

func (i *MemoizeInterceptor) store(k memoKey, v any) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.entries[k]; !ok {
		if len(i.order) >= i.maxEntries {
			oldest := i.order[0]
			i.order = i.order[1:]
			delete(i.entries, oldest)
		}
		i.order = append(i.order, k)
	}
	i.entries[k] = v
}

func (i *MemoizeInterceptor) evict(k memoKey) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.entries[k]; !ok {
		return
	}
	delete(i.entries, k)
	for n, o := range i.order {
		if o == k {
			i.order = append(i.order[:n:n], i.order[n+1:]...)
			break
		}
	}
}

// Len returns the number of cached results
func (i *MemoizeInterceptor) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}

// Stats returns cache hits and misses
func (i *MemoizeInterceptor) Stats() (hits, misses int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hits, i.misses
}

// Reset empties the cache
func (i *MemoizeInterceptor) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[memoKey]any)
	i.order = nil
	i.hits, i.misses = 0, 0
}

// Name implements Interceptor
func (i *MemoizeInterceptor) Name() string {
	return "MemoizeInterceptor"
}

// Memoize attaches a MemoizeInterceptor to key
func Memoize(b *hooks.Builder, key contracts.Key, maxEntries int) (*MemoizeInterceptor, *registry.Registration, error) {
	m := NewMemoizeInterceptor(maxEntries)
	reg, err := m.Attach(b, key)
	if err != nil {
		return nil, nil, err
	}
	return m, reg, nil
}
