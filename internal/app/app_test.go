package app

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

	"github.com/aatumaykin/cqbot/internal/commands"
	"github.com/aatumaykin/cqbot/internal/config"
	"github.com/aatumaykin/cqbot/internal/logger"
)

// oneBot is a websocket endpoint standing in for the chat gateway.
type oneBot struct {
	conns chan *websocket.Conn
	addr  string
}

func newOneBot(t *testing.T) *oneBot {
	t.Helper()
	ob := &oneBot{conns: make(chan *websocket.Conn, 1)}
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ob.conns <- ws
	}))
	t.Cleanup(srv.Close)
	ob.addr = "ws" + strings.TrimPrefix(srv.URL, "http")
	return ob
}

func (ob *oneBot) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case ws := <-ob.conns:
		t.Cleanup(func() { _ = ws.Close() })
		return ws
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not connect")
		return nil
	}
}

func readFrame(t *testing.T, ws *websocket.Conn) string {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := ws.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)
	return string(data)
}

func testConfig(addr string) *config.Config {
	cfg := config.Default()
	cfg.Transport.Address = addr
	disabled := false
	cfg.Broadcast.Enabled = &disabled
	return cfg
}

func TestApp_EndToEnd(t *testing.T) {
	ob := newOneBot(t)
	a := New(testConfig(ob.addr), logger.Nop(), WithRand(commands.NewRand(1)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	server := ob.accept(t)

	require.NoError(t, server.WriteMessage(websocket.TextMessage,
		[]byte(`{"post_type":"message","message":"1+1","sender":{"user_id":5}}`)))
	assert.JSONEq(t, `{"action":"send_msg","params":{"user_id":5,"message":"[CQ:at,qq=5]2"}}`, readFrame(t, server))

	require.NoError(t, server.WriteMessage(websocket.TextMessage,
		[]byte(`{"message":"#random 50 10","sender":{"user_id":5},"group_id":77}`)))
	assert.JSONEq(t, `{"action":"send_msg","params":{"group_id":77,"message":"[CQ:at,qq=5]掷出了50点！"}}`, readFrame(t, server))

	// Heartbeats and garbage are dropped without a reply.
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"post_type":"meta_event"}`)))
	require.NoError(t, server.WriteMessage(websocket.BinaryMessage, []byte{0xff}))
	require.NoError(t, server.WriteMessage(websocket.TextMessage,
		[]byte(`{"message":"#help","sender":{"user_id":6}}`)))
	assert.Contains(t, readFrame(t, server), `"user_id":6`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_StopsWhenPeerCloses(t *testing.T) {
	ob := newOneBot(t)
	cfg := testConfig(ob.addr)
	cfg.Dispatch.MaxWorkers = 2
	a := New(cfg, logger.Nop())

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	server := ob.accept(t)
	require.NoError(t, server.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the peer closed")
	}
}

func TestApp_DialFailure(t *testing.T) {
	cfg := testConfig("ws://127.0.0.1:1")
	cfg.Transport.DialTimeoutSeconds = 1
	a := New(cfg, logger.Nop())

	err := a.Run(context.Background())
	assert.Error(t, err)
}

func TestApp_InvalidSchedule(t *testing.T) {
	ob := newOneBot(t)
	cfg := config.Default()
	cfg.Transport.Address = ob.addr
	cfg.Broadcast.Schedule = "nonsense"

	err := New(cfg, logger.Nop()).Run(context.Background())
	assert.Error(t, err)
}
