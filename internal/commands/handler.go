// Package commands holds the command table and the built-in command handlers.
package commands

import (
	"context"
	"fmt"

	"github.com/aatumaykin/cqbot/internal/bus"
)

// Handler produces zero or more reply texts for a message whose first token
// matched one of its triggers. Handlers swallow their own failures: a failed
// or timed-out lookup yields no replies.
type Handler interface {
	Handle(ctx context.Context, msg bus.IncomingMessage, cmd string, args []string) []string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg bus.IncomingMessage, cmd string, args []string) []string

func (f HandlerFunc) Handle(ctx context.Context, msg bus.IncomingMessage, cmd string, args []string) []string {
	return f(ctx, msg, cmd, args)
}

// Registration binds a handler to its trigger tokens.
type Registration struct {
	Triggers []string
	Handler  Handler
}

// Table maps trigger tokens to handlers. It is built once and only read
// afterwards, so lookups need no locking.
type Table struct {
	handlers map[string]Handler
}

// NewTable builds a table. Empty or duplicate triggers are rejected.
func NewTable(regs ...Registration) (*Table, error) {
	t := &Table{handlers: make(map[string]Handler)}
	for _, reg := range regs {
		if reg.Handler == nil {
			return nil, fmt.Errorf("registration %v has no handler", reg.Triggers)
		}
		if len(reg.Triggers) == 0 {
			return nil, fmt.Errorf("registration has no triggers")
		}
		for _, trigger := range reg.Triggers {
			if trigger == "" {
				return nil, fmt.Errorf("empty trigger in %v", reg.Triggers)
			}
			if _, exists := t.handlers[trigger]; exists {
				return nil, fmt.Errorf("duplicate trigger: %s", trigger)
			}
			t.handlers[trigger] = reg.Handler
		}
	}
	return t, nil
}

// Lookup finds the handler for an exact trigger.
func (t *Table) Lookup(trigger string) (Handler, bool) {
	h, ok := t.handlers[trigger]
	return h, ok
}

// Len returns the number of registered triggers.
func (t *Table) Len() int {
	return len(t.handlers)
}
