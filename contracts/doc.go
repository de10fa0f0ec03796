// Package contracts provides the core types shared by every layer of hookable-go.
//
// This package defines the data model that listeners, registries and
// interception wrappers agree on:
//   - Type: an owning type with an explicit parent link and an exclusion list
//   - Base: the sentinel root type, which can be subclassed but never hooked
//   - Kind: the event kind a listener is registered for (get, set, ...)
//   - Key and Symbol: member keys accepted by the registry
//   - Instance, Func and Method: the callable surface of an intercepted object
//
// Ancestry is declared when a type is created rather than discovered at
// runtime:
//
//	animal := contracts.MustNewType("Animal", nil)
//	dog := contracts.MustNewType("Dog", animal, contracts.Exclude("id"))
//
//	dog.Is(animal)       // true
//	dog.Excludes("id")   // true
package contracts
