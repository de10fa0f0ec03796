// Package hooks is the registration surface for owning types.
//
// A Builder registers listeners for one type. Get and Set attach raw
// listeners; Property rewrites a read value; Params, Method, Result, Before
// and After compose a callable member through the derived chains. Every
// call returns the registration handle that removes the listener again.
//
//	b := hooks.MustTo(greeterType)
//	off, _ := b.Property("greeting", func(self contracts.Instance, v any) (any, error) {
//		return v.(string) + ",", nil
//	})
//	defer off.Unregister()
package hooks
