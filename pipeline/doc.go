// Package pipeline composes the derived hooks of a callable member.
//
// A Pipeline wraps one bound callable with explicit, ordered stages:
//
//	before advices -> params transforms -> method steps -> original
//	-> result transforms -> after advices
//
// Each stage keeps its steps in registration order, so the composition can be
// listed with Steps and audited without unwinding nested closures. Builder
// methods return a new Pipeline and never modify the receiver.
package pipeline
