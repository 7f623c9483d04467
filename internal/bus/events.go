// Package bus defines the messages that flow through the bot and the queue
// that carries replies to the single transport writer.
//
// Inbound frames follow the OneBot event shape:
//
//	{"message": "...", "sender": {"user_id": 10001}, "group_id": 20002}
//
// Outbound frames are send_msg actions addressed either to a user or to a
// group, never both:
//
//	{"action": "send_msg", "params": {"group_id": 20002, "message": "..."}}
package bus

import (
	"encoding/json"
	"errors"
)

// ActionSendMsg is the only outbound action the bot emits.
const ActionSendMsg = "send_msg"

// ErrNoTarget is returned when encoding a reply that has neither or both targets set.
var ErrNoTarget = errors.New("reply must address exactly one of user_id or group_id")

// IncomingMessage is one decoded chat message.
// GroupID is nil for direct messages.
type IncomingMessage struct {
	Text     string
	SenderID uint64
	GroupID  *uint64
}

// IsGroup reports whether the message came from a group chat.
func (m IncomingMessage) IsGroup() bool {
	return m.GroupID != nil
}

// OutboundReply is a reply waiting to be written. Exactly one of UserID and
// GroupID is set.
type OutboundReply struct {
	Text    string
	UserID  *uint64
	GroupID *uint64
}

// ReplyTo addresses text the same way msg was addressed: group messages are
// answered in the group, direct messages go back to the sender.
func ReplyTo(msg IncomingMessage, text string) OutboundReply {
	if msg.GroupID != nil {
		g := *msg.GroupID
		return OutboundReply{Text: text, GroupID: &g}
	}
	u := msg.SenderID
	return OutboundReply{Text: text, UserID: &u}
}

// Broadcast builds a reply addressed to a group.
func Broadcast(groupID uint64, text string) OutboundReply {
	return OutboundReply{Text: text, GroupID: &groupID}
}

// SendParams is the params object of a send_msg action.
type SendParams struct {
	UserID  *uint64 `json:"user_id,omitempty"`
	GroupID *uint64 `json:"group_id,omitempty"`
	Message string  `json:"message"`
}

// OutboundFrame is the wire form of an OutboundReply.
type OutboundFrame struct {
	Action string     `json:"action"`
	Params SendParams `json:"params"`
}

// Encode serializes the reply into a send_msg frame.
func (r OutboundReply) Encode() ([]byte, error) {
	if (r.UserID == nil) == (r.GroupID == nil) {
		return nil, ErrNoTarget
	}
	return json.Marshal(OutboundFrame{
		Action: ActionSendMsg,
		Params: SendParams{
			UserID:  r.UserID,
			GroupID: r.GroupID,
			Message: r.Text,
		},
	})
}

// inboundFrame mirrors the recognized inbound shape. group_id is kept raw so
// that a malformed value degrades to a direct message instead of dropping it.
type inboundFrame struct {
	Message *string `json:"message"`
	Sender  *struct {
		UserID *uint64 `json:"user_id"`
	} `json:"sender"`
	GroupID json.RawMessage `json:"group_id"`
}

// DecodeInbound parses a chat event. ok is false for anything that is not a
// chat message: other event types, malformed JSON, a missing sender id or a
// non-text message body.
func DecodeInbound(data []byte) (msg IncomingMessage, ok bool) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return IncomingMessage{}, false
	}
	if frame.Message == nil || frame.Sender == nil || frame.Sender.UserID == nil {
		return IncomingMessage{}, false
	}

	msg = IncomingMessage{
		Text:     *frame.Message,
		SenderID: *frame.Sender.UserID,
	}
	if len(frame.GroupID) > 0 && string(frame.GroupID) != "null" {
		var g uint64
		if err := json.Unmarshal(frame.GroupID, &g); err == nil {
			msg.GroupID = &g
		}
	}
	return msg, true
}
