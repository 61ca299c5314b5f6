// Package registry validates extracted invocations, rewrites them to their
// canonical textual form and performs them through the configured execution
// strategy. All outcomes accumulate on a per-turn Context value; nothing in
// this package holds process-wide mutable state.
package registry

import "github.com/google/uuid"

// Context is the audit trail for a single turn. One invocation lands in
// exactly one of Executed, Ignored or Errors; Recalled carries the note
// text produced by recall operations for the turn's feedback.
type Context struct {
	TurnID   string
	Executed []string
	Ignored  []string
	Errors   []string
	Recalled []string
}

// NewContext returns a fresh audit context with a unique turn id.
func NewContext() *Context {
	return &Context{TurnID: uuid.NewString()}
}
