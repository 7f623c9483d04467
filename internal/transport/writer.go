package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
)

// Writer owns the outbound half of the connection.
type Writer struct {
	ws      *websocket.Conn
	timeout time.Duration
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// Run drains q onto the connection, one text frame per item, in queue order.
// It returns nil once q is closed and drained or ctx is cancelled, and the
// write error if a frame cannot be sent. Failed writes are not retried.
func (w *Writer) Run(ctx context.Context, q *bus.Queue) error {
	w.logger.InfoCtx(ctx, "outbound writer started")
	defer w.logger.InfoCtx(ctx, "outbound writer stopped")

	for {
		frame, err := q.Pop(ctx)
		if err != nil {
			if errors.Is(err, bus.ErrQueueClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := w.write(frame); err != nil {
			w.metrics.WriteFailed()
			w.logger.ErrorCtx(ctx, "failed to write outbound frame", err,
				logger.Field{Key: "payload", Value: string(frame)})
			return fmt.Errorf("failed to write outbound frame: %w", err)
		}
		w.metrics.FrameWritten()
	}
}

func (w *Writer) write(frame []byte) error {
	if err := w.ws.SetWriteDeadline(time.Now().Add(w.timeout)); err != nil {
		return err
	}
	return w.ws.WriteMessage(websocket.TextMessage, frame)
}
