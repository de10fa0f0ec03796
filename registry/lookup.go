package registry

import (
	"sort"

	"github.com/glimte/hookable-go/contracts"
)

// Entry describes one listener of a merged chain
type Entry struct {
	ID       string
	Owner    *contracts.Type
	Priority int
}

type resolved struct {
	entry    *entry
	owner    *contracts.Type
	priority int
}

// Lookup returns the merged listener chain for (t, kind, key): ascending
// priority, ancestor listeners before own listeners within a priority. The
// result is a snapshot; later (un)registration does not affect it.
func (c *Container) Lookup(t *contracts.Type, kind contracts.Kind, key contracts.Key) []Listener {
	merged := c.resolve(t, kind, key)
	listeners := make([]Listener, len(merged))
	for i, r := range merged {
		listeners[i] = r.entry.listener
	}
	return listeners
}

// Inspect returns the same ordering as Lookup as descriptive entries
func (c *Container) Inspect(t *contracts.Type, kind contracts.Kind, key contracts.Key) []Entry {
	merged := c.resolve(t, kind, key)
	entries := make([]Entry, len(merged))
	for i, r := range merged {
		entries[i] = Entry{ID: r.entry.id, Owner: r.owner, Priority: r.priority}
	}
	return entries
}

func (c *Container) resolve(t *contracts.Type, kind contracts.Kind, key contracts.Key) []resolved {
	if t == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	levels := make(map[int][]resolved)
	seen := make(map[int]map[any]struct{})
	c.fold(t, kind, key, levels, seen)

	priorities := make([]int, 0, len(levels))
	for p := range levels {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	var merged []resolved
	for _, p := range priorities {
		merged = append(merged, levels[p]...)
	}
	return merged
}

// fold merges the parent's chain first, then folds in t's own buckets
func (c *Container) fold(t *contracts.Type, kind contracts.Kind, key contracts.Key, levels map[int][]resolved, seen map[int]map[any]struct{}) {
	if t == nil || t.IsBase() {
		return
	}
	c.fold(t.Parent(), kind, key, levels, seen)

	own := c.hooks[t][kind][key]
	for priority, bucket := range own {
		if seen[priority] == nil {
			seen[priority] = make(map[any]struct{})
		}
		for _, e := range bucket.entries {
			if _, dup := seen[priority][e.ident]; dup {
				continue
			}
			seen[priority][e.ident] = struct{}{}
			levels[priority] = append(levels[priority], resolved{entry: e, owner: t, priority: priority})
		}
	}
}

// Dispatch runs the merged chain for (t, kind, key) seeded with value and
// returns the final context value. The chain is flattened once, so
// concurrent registration cannot change a dispatch in flight. The first
// listener error aborts the chain and is returned unchanged.
func (c *Container) Dispatch(receiver contracts.Instance, t *contracts.Type, kind contracts.Kind, key contracts.Key, value any) (any, error) {
	hc, err := c.Run(receiver, t, kind, key, value)
	if err != nil {
		return nil, err
	}
	hc.Commit()
	return hc.Value, nil
}

// Run is like Dispatch but leaves committing to the caller. The returned
// context holds the final value and any pending OnCommit callbacks.
func (c *Container) Run(receiver contracts.Instance, t *contracts.Type, kind contracts.Kind, key contracts.Key, value any) (*HookCtx, error) {
	hc := &HookCtx{
		Receiver: receiver,
		Type:     t,
		Kind:     kind,
		Key:      key,
		Value:    value,
	}

	for _, l := range c.Lookup(t, kind, key) {
		if err := l.Handle(hc); err != nil {
			return nil, err
		}
		if hc.stopped {
			break
		}
	}

	return hc, nil
}
