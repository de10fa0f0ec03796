// Package registry stores hook listeners per owning type and dispatches them.
//
// A Container maps (type, kind, key, priority) to an ordered set of
// listeners. Lookups merge a type's own listeners with those of its
// ancestors:
//   - lower priorities run first (DefaultPriority is 10)
//   - within one priority, ancestor listeners run before the type's own
//   - within one bucket, listeners run in registration order
//   - a listener present on several levels of the lineage runs once
//
// Listener chains are flattened once per dispatch under a read lock and then
// executed with no lock held, so listeners may freely re-enter the registry.
//
// Example usage:
//
//	c := registry.NewContainer()
//	reg, err := c.Register(userType, contracts.KindGet, "name",
//		registry.ListenerFunc(func(hc *registry.HookCtx) error {
//			hc.Value = strings.ToUpper(hc.Value.(string))
//			return nil
//		}), registry.DefaultPriority)
//
//	value, err := c.Dispatch(user, userType, contracts.KindGet, "name", "ada")
//	reg.Unregister()
//
// Types are bound to containers with Bind; unbound types use Default.
package registry
