package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/mockmate/internal/domains/session"
)

// Conn represents one live interview WebSocket connection
type Conn struct {
	SessionID  uuid.UUID
	MockID     string
	UserEmail  string
	Socket     *websocket.Conn
	Controller *session.Controller
	Cancel     context.CancelFunc

	ConnectedAt time.Time
	lastActive  time.Time
	isActive    bool
	mutex       sync.RWMutex
}

// NewConn creates a connection wrapper around an upgraded socket
func NewConn(mockID, userEmail string, socket *websocket.Conn, controller *session.Controller, cancel context.CancelFunc) *Conn {
	return &Conn{
		SessionID:   uuid.New(),
		MockID:      mockID,
		UserEmail:   userEmail,
		Socket:      socket,
		Controller:  controller,
		Cancel:      cancel,
		ConnectedAt: time.Now(),
		lastActive:  time.Now(),
		isActive:    true,
	}
}

// SendMessage writes one JSON envelope to the client
func (s *Conn) SendMessage(msgType MessageType, data interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isActive {
		return fmt.Errorf("session not active")
	}

	msg := WSMessage{
		Type:      msgType,
		Data:      data,
		SessionID: s.SessionID.String(),
		Timestamp: time.Now(),
	}
	return s.Socket.WriteJSON(msg)
}

// SendError sends an error message to the client
func (s *Conn) SendError(code, message string) error {
	return s.SendMessage(MessageTypeError, ErrorMessage{Code: code, Message: message})
}

// SendAudio writes one binary audio payload to the client
func (s *Conn) SendAudio(frame []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isActive {
		return fmt.Errorf("session not active")
	}
	return s.Socket.WriteMessage(websocket.BinaryMessage, frame)
}

// Touch updates the last activity timestamp
func (s *Conn) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the last activity timestamp
func (s *Conn) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

// IsExpired checks if the connection has been idle past the timeout
func (s *Conn) IsExpired(timeout time.Duration) bool {
	return time.Since(s.LastActive()) > timeout
}

// IsAlive checks if the connection is active
func (s *Conn) IsAlive() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isActive
}

// Close tears down the session loop and the underlying socket
func (s *Conn) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isActive {
		return nil
	}
	s.isActive = false

	if s.Cancel != nil {
		s.Cancel()
	}
	return s.Socket.Close()
}
