// Package journal records member mutations observed by hooks.
//
// Entries hold JSON snapshots of the value before and after a write so later
// changes to the live value do not rewrite history. The in-memory journal
// rotates its oldest entries once it reaches its capacity.
package journal
