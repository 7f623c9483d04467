package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/logger"
)

type peer struct {
	conns  chan *websocket.Conn
	header chan http.Header
}

// newPeer starts a websocket endpoint and hands every accepted connection
// to the test.
func newPeer(t *testing.T) (*peer, string) {
	t.Helper()
	p := &peer{conns: make(chan *websocket.Conn, 1), header: make(chan http.Header, 1)}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.header <- r.Header.Clone()
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.conns <- ws
	}))
	t.Cleanup(srv.Close)

	return p, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (p *peer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case ws := <-p.conns:
		t.Cleanup(func() { _ = ws.Close() })
		return ws
	case <-time.After(time.Second):
		t.Fatal("no connection accepted")
		return nil
	}
}

func TestDial_SendsAccessToken(t *testing.T) {
	p, addr := newPeer(t)

	conn, err := Dial(context.Background(), addr, Options{AccessToken: "s3cret", Logger: logger.Nop()})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "Bearer s3cret", (<-p.header).Get("Authorization"))
	p.accept(t)
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", Options{DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestDial_RejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestReader_ReadFrame(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	defer conn.Close()
	server := p.accept(t)

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"message":"hi"}`)))
	require.NoError(t, server.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))

	r := conn.Reader()
	frame, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"message":"hi"}`, string(frame))

	frame, err = r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Nil(t, frame, "binary frames are reported as undecodable")

	require.NoError(t, server.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	_, err = r.ReadFrame(context.Background())
	require.Error(t, err)
	assert.True(t, IsClosed(err))
}

func TestReader_ReadLimit(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{ReadLimit: 16})
	require.NoError(t, err)
	defer conn.Close()
	server := p.accept(t)

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 64))))
	_, err = conn.Reader().ReadFrame(context.Background())
	assert.Error(t, err)
}

func TestConn_CloseUnblocksReader(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	p.accept(t)

	done := make(chan error, 1)
	go func() {
		_, err := conn.Reader().ReadFrame(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	_ = conn.Close()
	assert.NotPanics(t, func() { _ = conn.Close() })

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after Close")
	}
}

func TestWriter_DrainsQueueInOrder(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	defer conn.Close()
	server := p.accept(t)

	q := bus.NewQueue()
	for _, text := range []string{"one", "two", "three"} {
		frame, err := bus.Broadcast(5, text).Encode()
		require.NoError(t, err)
		require.NoError(t, q.Push(frame))
	}

	done := make(chan error, 1)
	go func() { done <- conn.Writer().Run(context.Background(), q) }()

	for _, want := range []string{"one", "two", "three"} {
		require.NoError(t, server.SetReadDeadline(time.Now().Add(time.Second)))
		kind, data, err := server.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.JSONEq(t, `{"action":"send_msg","params":{"group_id":5,"message":"`+want+`"}}`, string(data))
	}

	q.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("writer did not stop after queue close")
	}
}

func TestWriter_ReturnsWriteError(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	p.accept(t)

	// Tear down the socket under the writer.
	require.NoError(t, conn.ws.Close())

	q := bus.NewQueue()
	require.NoError(t, q.Push([]byte(`{}`)))

	err = conn.Writer().Run(context.Background(), q)
	assert.Error(t, err)
}

func TestWriter_StopsOnCancel(t *testing.T) {
	p, addr := newPeer(t)
	conn, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	defer conn.Close()
	p.accept(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- conn.Writer().Run(ctx, bus.NewQueue()) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("writer did not stop after cancel")
	}
}
