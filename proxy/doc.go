// Package proxy is the interception layer.
//
// An Object wraps a Target under an owning type and routes every member
// access through the hook registry: reads through the get chain, writes
// through the set chain, and callable members additionally through the
// derived method, params, result, before and after chains. Code holding an
// Object should use it in place of the raw target.
package proxy
