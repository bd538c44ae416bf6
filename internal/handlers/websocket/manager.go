package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// ConnectionManager tracks live interview connections
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[uuid.UUID]*Conn
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	sessionTimeout time.Duration
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *Logger.Logger, sessionTimeout time.Duration) *ConnectionManager {
	if sessionTimeout <= 0 {
		sessionTimeout = 30 * time.Minute
	}
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[uuid.UUID]*Conn),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: sessionTimeout,
	}
	cm.startCleanupRoutine()
	return cm
}

// Register adds a new connection
func (cm *ConnectionManager) Register(conn *Conn) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[conn.SessionID] = conn
	cm.logger.Infof("registered interview session %s (mock %s, user %s)",
		conn.SessionID, conn.MockID, conn.UserEmail)
}

// Unregister removes and closes a connection
func (cm *ConnectionManager) Unregister(sessionID uuid.UUID) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if conn, exists := cm.sessions[sessionID]; exists {
		if err := conn.Close(); err != nil {
			cm.logger.Errorf("error closing session %s: %v", sessionID, err)
		}
		delete(cm.sessions, sessionID)
		cm.logger.Infof("unregistered interview session %s", sessionID)
	}
}

// Count returns the number of live connections
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.sessions)
}

// startCleanupRoutine reaps idle connections every 5 minutes
func (cm *ConnectionManager) startCleanupRoutine() {
	cm.cleanupTicker = time.NewTicker(5 * time.Minute)

	go func() {
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				cm.cleanupTicker.Stop()
				return
			}
		}
	}()
}

func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for sessionID, conn := range cm.sessions {
		if conn.IsExpired(cm.sessionTimeout) {
			cm.logger.Infof("cleaning up expired session %s", sessionID)
			conn.Close()
			delete(cm.sessions, sessionID)
		}
	}
}

// Close shuts down the connection manager and all live connections
func (cm *ConnectionManager) Close() error {
	close(cm.stopCleanup)

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for sessionID, conn := range cm.sessions {
		if err := conn.Close(); err != nil {
			cm.logger.Errorf("error closing session %s: %v", sessionID, err)
		}
	}
	cm.sessions = make(map[uuid.UUID]*Conn)
	return nil
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() map[string]interface{} {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	sessionStats := make([]map[string]interface{}, 0, len(cm.sessions))
	for _, conn := range cm.sessions {
		sessionStats = append(sessionStats, map[string]interface{}{
			"session_id":   conn.SessionID.String(),
			"mock_id":      conn.MockID,
			"user_email":   conn.UserEmail,
			"connected_at": conn.ConnectedAt,
			"last_active":  conn.LastActive(),
			"is_active":    conn.IsAlive(),
		})
	}

	return map[string]interface{}{
		"active_sessions": len(cm.sessions),
		"session_timeout": cm.sessionTimeout.String(),
		"sessions":        sessionStats,
	}
}
