// Package transport connects to the OneBot websocket endpoint and splits the
// connection into an inbound Reader and an outbound Writer.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
)

const (
	DefaultDialTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	closeGracePeriod    = time.Second
)

// Options configures Dial.
type Options struct {
	AccessToken  string
	ReadLimit    int64
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *logger.Logger
	Metrics      *metrics.Metrics
}

// Conn is an established websocket connection. The reader half must only be
// used by one goroutine and the writer half by another.
type Conn struct {
	ws        *websocket.Conn
	opts      Options
	closeOnce sync.Once
	closeErr  error
}

// Dial opens the websocket connection to addr.
func Dial(ctx context.Context, addr string, opts Options) (*Conn, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	header := http.Header{}
	if opts.AccessToken != "" {
		header.Set("Authorization", "Bearer "+opts.AccessToken)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.DialTimeout,
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	ws, resp, err := dialer.DialContext(dialCtx, addr, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w (HTTP %d)", addr, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if opts.ReadLimit > 0 {
		ws.SetReadLimit(opts.ReadLimit)
	}

	opts.Logger.Info("connected to websocket endpoint", logger.Field{Key: "address", Value: addr})
	return &Conn{ws: ws, opts: opts}, nil
}

// Reader returns the inbound half.
func (c *Conn) Reader() *Reader {
	return &Reader{ws: c.ws}
}

// Writer returns the outbound half.
func (c *Conn) Writer() *Writer {
	return &Writer{
		ws:      c.ws,
		timeout: c.opts.WriteTimeout,
		logger:  c.opts.Logger,
		metrics: c.opts.Metrics,
	}
}

// Close sends a close frame and tears the connection down. Blocked reads
// return with an error. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

// Reader yields inbound frames.
type Reader struct {
	ws *websocket.Conn
}

// ReadFrame blocks for the next data frame. Binary frames are returned as
// nil so the caller drops them as undecodable. ctx is not consulted while
// blocked; closing the Conn unblocks the read.
func (r *Reader) ReadFrame(_ context.Context) ([]byte, error) {
	kind, data, err := r.ws.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("connection closed by peer: %w", err)
		}
		return nil, err
	}
	if kind != websocket.TextMessage {
		return nil, nil
	}
	return data, nil
}

// IsClosed reports whether err means the connection is gone.
func IsClosed(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr) || errors.Is(err, websocket.ErrCloseSent)
}
