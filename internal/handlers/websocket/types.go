package websocket

import (
	"time"

	"github.com/xpanvictor/mockmate/internal/domains/session"
)

// MessageType defines the type of outbound WebSocket message
type MessageType string

const (
	MessageTypeInit  MessageType = "init"
	MessageTypeEvent MessageType = "event"
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// WSMessage is the outbound message envelope
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Command is an inbound client instruction sent as a text message
type Command struct {
	Action string `json:"action"` // start, stop, next, prev, jump, complete, retry_save, mute, speak, status
	Index  int    `json:"index,omitempty"`
	Muted  bool   `json:"muted,omitempty"`
}

// Inbound command actions
const (
	ActionStart     = "start"
	ActionStop      = "stop"
	ActionNext      = "next"
	ActionPrev      = "prev"
	ActionJump      = "jump"
	ActionComplete  = "complete"
	ActionRetrySave = "retry_save"
	ActionMute      = "mute"
	ActionSpeak     = "speak"
	ActionStatus    = "status"
)

// InitMessage acknowledges a new connection
type InitMessage struct {
	Status    string           `json:"status"`
	SessionID string           `json:"sessionId"`
	MockID    string           `json:"mockId"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// audioHeaderSize is the fixed prefix of binary audio frames: sample rate
// (int32 LE), channel count (int16 LE) and two reserved bytes, then raw PCM.
const audioHeaderSize = 8
