package bus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name   string
		frame  string
		wantOK bool
		want   IncomingMessage
	}{
		{
			name:   "direct message",
			frame:  `{"message":"#help","sender":{"user_id":10001}}`,
			wantOK: true,
			want:   IncomingMessage{Text: "#help", SenderID: 10001},
		},
		{
			name:   "group message",
			frame:  `{"post_type":"message","message":"1+1","sender":{"user_id":10001,"nickname":"a"},"group_id":20002}`,
			wantOK: true,
			want:   IncomingMessage{Text: "1+1", SenderID: 10001, GroupID: u64(20002)},
		},
		{
			name:   "null group id is a direct message",
			frame:  `{"message":"x","sender":{"user_id":1},"group_id":null}`,
			wantOK: true,
			want:   IncomingMessage{Text: "x", SenderID: 1},
		},
		{
			name:   "non numeric group id is a direct message",
			frame:  `{"message":"x","sender":{"user_id":1},"group_id":"oops"}`,
			wantOK: true,
			want:   IncomingMessage{Text: "x", SenderID: 1},
		},
		{
			name:   "empty text is still a message",
			frame:  `{"message":"","sender":{"user_id":1}}`,
			wantOK: true,
			want:   IncomingMessage{Text: "", SenderID: 1},
		},
		{name: "missing sender", frame: `{"message":"hi"}`},
		{name: "missing user id", frame: `{"message":"hi","sender":{"nickname":"a"}}`},
		{name: "negative user id", frame: `{"message":"hi","sender":{"user_id":-5}}`},
		{name: "string user id", frame: `{"message":"hi","sender":{"user_id":"5"}}`},
		{name: "array message", frame: `{"message":[{"type":"text"}],"sender":{"user_id":5}}`},
		{name: "meta event", frame: `{"post_type":"meta_event","meta_event_type":"heartbeat"}`},
		{name: "not json", frame: `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeInbound([]byte(tt.frame))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReplyTo_MirrorsAddressing(t *testing.T) {
	direct := IncomingMessage{Text: "hi", SenderID: 42}
	reply := ReplyTo(direct, "pong")
	require.NotNil(t, reply.UserID)
	assert.Equal(t, uint64(42), *reply.UserID)
	assert.Nil(t, reply.GroupID)

	group := IncomingMessage{Text: "hi", SenderID: 42, GroupID: u64(7)}
	reply = ReplyTo(group, "pong")
	require.NotNil(t, reply.GroupID)
	assert.Equal(t, uint64(7), *reply.GroupID)
	assert.Nil(t, reply.UserID)
}

func TestReplyTo_DoesNotAliasMessage(t *testing.T) {
	g := uint64(7)
	msg := IncomingMessage{SenderID: 1, GroupID: &g}
	reply := ReplyTo(msg, "x")
	g = 8
	assert.Equal(t, uint64(7), *reply.GroupID)
}

func TestOutboundReply_Encode(t *testing.T) {
	frame, err := ReplyTo(IncomingMessage{SenderID: 42}, "pong").Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"send_msg","params":{"user_id":42,"message":"pong"}}`, string(frame))

	frame, err = Broadcast(790720353, "开奖啦").Encode()
	require.NoError(t, err)

	var decoded OutboundFrame
	require.NoError(t, json.Unmarshal(frame, &decoded))
	assert.Equal(t, ActionSendMsg, decoded.Action)
	assert.Nil(t, decoded.Params.UserID)
	require.NotNil(t, decoded.Params.GroupID)
	assert.Equal(t, uint64(790720353), *decoded.Params.GroupID)
	assert.Equal(t, "开奖啦", decoded.Params.Message)
}

func TestOutboundReply_EncodeRequiresOneTarget(t *testing.T) {
	_, err := OutboundReply{Text: "x"}.Encode()
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = OutboundReply{Text: "x", UserID: u64(1), GroupID: u64(2)}.Encode()
	assert.ErrorIs(t, err, ErrNoTarget)
}
