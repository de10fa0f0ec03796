// Package luahook registers listeners written in Lua.
//
// A Script is compiled from a chunk that returns a function. The chunk runs
// in a gopher-lua state with only the base, table, string and math
// libraries opened; file loading functions are removed. Calls into a Script
// are serialized and each one is bounded by the call timeout.
//
//	s, err := luahook.Compile(`return function(v) return string.upper(v) end`)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	luahook.Property(hooks.MustTo(userType), "name", s)
package luahook
