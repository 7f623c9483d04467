// Package router turns one incoming chat message into the list of reply
// texts. Three stages run in order and their outputs are concatenated:
// shared-card link extraction, per-line arithmetic, then command dispatch.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/commands"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

// Router holds the immutable command table.
type Router struct {
	table  *commands.Table
	logger *logger.Logger
}

// New creates a router over table.
func New(table *commands.Table, log *logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	return &Router{table: table, logger: log}
}

// Route computes every reply for msg. It never fails; stages that find
// nothing contribute nothing.
func (r *Router) Route(ctx context.Context, msg bus.IncomingMessage) []string {
	var replies []string

	if card, ok := ExtractCard(msg.Text); ok {
		replies = append(replies, card)
	}

	for _, line := range splitLines(msg.Text) {
		if reply, ok := r.evaluate(ctx, line); ok {
			replies = append(replies, fmt.Sprintf(constants.MsgAtFormat, msg.SenderID, reply))
		}
	}

	replies = append(replies, r.dispatch(ctx, msg)...)
	return replies
}

// dispatch runs the handler registered for the first token, if any.
func (r *Router) dispatch(ctx context.Context, msg bus.IncomingMessage) (out []string) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 || r.table == nil {
		return nil
	}

	handler, ok := r.table.Lookup(fields[0])
	if !ok {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorCtx(ctx, "command handler panicked", fmt.Errorf("panic: %v", rec),
				logger.Field{Key: "command", Value: fields[0]})
			out = nil
		}
	}()

	return handler.Handle(ctx, msg, fields[0], fields[1:])
}

// splitLines splits on \n and drops a trailing \r from each line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
