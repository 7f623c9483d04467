package dispatch

import (
	"context"
)

// Spawner starts message tasks. Tasks get a context that outlives the
// dispatcher's: shutdown abandons them instead of cancelling them.
type Spawner interface {
	Spawn(ctx context.Context, id string, fn func(context.Context)) error
}

// Unbounded runs every task on its own goroutine.
type Unbounded struct{}

func (Unbounded) Spawn(ctx context.Context, _ string, fn func(context.Context)) error {
	go fn(context.WithoutCancel(ctx))
	return nil
}
