package websocket

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/internal/domains/session"
	"github.com/xpanvictor/mockmate/internal/domains/user"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/capture"
	"github.com/xpanvictor/mockmate/pkg/stt"
	"github.com/xpanvictor/mockmate/pkg/tts"
)

// SessionHandler owns the live interview WebSocket endpoint. Each connection
// gets its own session controller, recorder and speaker.
type SessionHandler struct {
	logger            *Logger.Logger
	interviewService  interview.InterviewService
	answerService     answer.AnswerService
	userService       user.UserService
	transcriber       stt.Transcriber
	config            *config.Settings
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
}

// NewSessionHandler creates a new session WebSocket handler
func NewSessionHandler(
	logger *Logger.Logger,
	interviewService interview.InterviewService,
	answerService answer.AnswerService,
	userService user.UserService,
	transcriber stt.Transcriber,
	cfg *config.Settings,
) *SessionHandler {
	return &SessionHandler{
		logger:            logger,
		interviewService:  interviewService,
		answerService:     answerService,
		userService:       userService,
		transcriber:       transcriber,
		config:            cfg,
		connectionManager: NewConnectionManager(logger, cfg.Session.InterviewTTL()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origins once the web client's domain is fixed
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *SessionHandler) RegisterRoutes(router gin.IRouter) {
	ws := router.Group("/ws")
	{
		ws.GET("/session/:mockId", h.HandleSession)
		ws.GET("/stats", h.HandleStats)
	}
}

// HandleSession runs one live interview session over a WebSocket.
// Binary frames carry audio chunks, text frames carry JSON commands, and
// session events stream back as JSON envelopes.
func (h *SessionHandler) HandleSession(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}
	claims, err := h.userService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Debugf("session token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	mockID := c.Param("mockId")
	record, err := h.interviewService.GetRecord(c.Request.Context(), mockID)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
			return
		}
		h.logger.Errorf("loading interview %s: %v", mockID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	controller := h.newController()
	if err := controller.Load(record, claims.Email); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Interview has no usable questions", "details": err.Error()})
		return
	}

	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	conn := NewConn(mockID, claims.Email, socket, controller, cancel)

	h.connectionManager.Register(conn)
	defer h.connectionManager.Unregister(conn.SessionID)

	go controller.Run(ctx)
	go h.pumpEvents(ctx, conn)

	conn.SendMessage(MessageTypeInit, InitMessage{
		Status:    "connected",
		SessionID: conn.SessionID.String(),
		MockID:    mockID,
		Snapshot:  controller.Snapshot(),
	})

	h.handleConnection(ctx, conn)
}

// HandleStats provides connection statistics
func (h *SessionHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   h.connectionManager.GetStats(),
	})
}

// newController builds the per-connection pipeline: its own recorder and
// speaker so mute state and buffered audio never leak across sessions.
func (h *SessionHandler) newController() *session.Controller {
	speaker := tts.New(h.config.Speech.TTSBaseURL)
	speaker.Voice = h.config.Speech.Voice
	if h.config.Speech.Rate > 0 {
		speaker.Rate = h.config.Speech.Rate
	}
	if h.config.Speech.Pitch > 0 {
		speaker.Pitch = h.config.Speech.Pitch
	}

	recorder := capture.NewRecorder(nil, h.config.Session.CaptureBufferSize)
	return session.NewController(
		h.logger,
		recorder,
		h.transcriber,
		h.answerService,
		speaker,
		h.config.Session.AnswerBudget(),
		h.config.Session.MinAnswerChars,
	)
}

// pumpEvents forwards controller events to the client until teardown.
func (h *SessionHandler) pumpEvents(ctx context.Context, conn *Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-conn.Controller.Events():
			if err := conn.SendMessage(MessageTypeEvent, ev); err != nil {
				h.logger.Debugf("event push to session %s failed: %v", conn.SessionID, err)
				return
			}
		}
	}
}

// handleConnection runs the read loop until the client disconnects.
func (h *SessionHandler) handleConnection(ctx context.Context, conn *Conn) {
	for {
		messageType, data, err := conn.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Errorf("WebSocket read error: %v", err)
			} else {
				h.logger.Infof("WebSocket connection closed for session %s", conn.SessionID)
			}
			return
		}

		conn.Touch()

		switch messageType {
		case websocket.TextMessage:
			h.handleCommand(ctx, conn, data)
		case websocket.BinaryMessage:
			h.handleAudioFrame(conn, data)
		}
	}
}

// handleCommand processes one JSON command from the client.
func (h *SessionHandler) handleCommand(ctx context.Context, conn *Conn, data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.logger.Errorf("failed to unmarshal command: %v", err)
		conn.SendError("INVALID_MESSAGE", "Invalid command format")
		return
	}

	controller := conn.Controller

	switch cmd.Action {
	case ActionStart:
		if err := controller.StartRecording(ctx); err != nil {
			conn.SendError("START_FAILED", err.Error())
		}

	case ActionStop:
		if err := controller.StopRecording(ctx); err != nil {
			conn.SendError("STOP_FAILED", err.Error())
		}

	case ActionNext:
		controller.Advance()

	case ActionPrev:
		controller.Previous()

	case ActionJump:
		if !controller.Navigate(cmd.Index) {
			conn.SendError("OUT_OF_RANGE", fmt.Sprintf("No question at index %d", cmd.Index))
		}

	case ActionComplete:
		// jump to the last question and advance past it
		snap := controller.Snapshot()
		if snap.QuestionCount > 0 {
			controller.Navigate(snap.QuestionCount - 1)
			controller.Advance()
		}

	case ActionRetrySave:
		if err := controller.RetrySave(ctx); err != nil {
			conn.SendError("RETRY_FAILED", err.Error())
		}

	case ActionMute:
		controller.SetMuted(cmd.Muted)
		conn.SendMessage(MessageTypeState, controller.Snapshot())

	case ActionSpeak:
		h.speakQuestion(ctx, conn)

	case ActionStatus:
		conn.SendMessage(MessageTypeState, controller.Snapshot())

	default:
		h.logger.Warnf("unknown command action: %s", cmd.Action)
		conn.SendError("UNKNOWN_ACTION", fmt.Sprintf("Unknown action: %s", cmd.Action))
	}
}

// speakQuestion synthesizes the active question and streams it back as one
// binary payload.
func (h *SessionHandler) speakQuestion(ctx context.Context, conn *Conn) {
	body, mimeType, err := conn.Controller.SpeakActiveQuestion(ctx)
	if err != nil {
		if errors.Is(err, tts.ErrMuted) {
			conn.SendError("MUTED", "Question playback is muted")
			return
		}
		h.logger.Errorf("speech synthesis failed: %v", err)
		conn.SendError("SPEECH_FAILED", "Failed to synthesize question")
		return
	}
	defer body.Close()

	audio, err := io.ReadAll(body)
	if err != nil {
		h.logger.Errorf("reading synthesized audio: %v", err)
		conn.SendError("SPEECH_FAILED", "Failed to read synthesized audio")
		return
	}

	conn.SendMessage(MessageTypeState, gin.H{"speaking": true, "mimeType": mimeType})
	if err := conn.SendAudio(audio); err != nil {
		h.logger.Debugf("audio push to session %s failed: %v", conn.SessionID, err)
	}
}

// handleAudioFrame parses one binary audio frame and appends it to the
// active capture.
func (h *SessionHandler) handleAudioFrame(conn *Conn, data []byte) {
	if len(data) <= audioHeaderSize {
		conn.SendError("INVALID_AUDIO", "Audio frame too short")
		return
	}

	chunk := capture.Chunk{
		SampleRate: int32(binary.LittleEndian.Uint32(data[0:4])),
		Channels:   int16(binary.LittleEndian.Uint16(data[4:6])),
		Data:       data[audioHeaderSize:],
		Timestamp:  time.Now(),
	}

	if err := conn.Controller.Append(chunk); err != nil {
		if errors.Is(err, session.ErrNotRecording) {
			// frames racing a stop are expected, drop quietly
			return
		}
		h.logger.Errorf("audio append failed: %v", err)
		conn.SendError("AUDIO_PROCESSING_ERROR", "Failed to buffer audio frame")
	}
}

// Close shuts down the WebSocket handler
func (h *SessionHandler) Close() error {
	return h.connectionManager.Close()
}
