package handlers

import (
	"context"
	"errors"
	"net/http"

	"ragchat/database/repository/chatRepo"
	"ragchat/models"
	"ragchat/services/conversation"
	"ragchat/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TurnHandler runs one chat turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req conversation.TurnRequest) (*conversation.TurnResponse, error)
}

// SessionHistory is the read and reset side of the history cache.
type SessionHistory interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]models.HistoryMessage, error)
	Clear(ctx context.Context, sessionID string) error
	LastBooking(ctx context.Context, sessionID string) (*models.BookingRecord, error)
}

// TranscriptReader reads the durable transcript.
type TranscriptReader interface {
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ListMessages(ctx context.Context, sessionRowID string) ([]models.ChatMessage, error)
}

type ChatHandler struct {
	Turns       TurnHandler
	History     SessionHistory
	Transcripts TranscriptReader
	Window      int
}

func NewChatHandler(turns TurnHandler, history SessionHistory, transcripts TranscriptReader, window int) *ChatHandler {
	return &ChatHandler{Turns: turns, History: history, Transcripts: transcripts, Window: window}
}

// QueryHandler answers a question or runs the booking flow for it.
func (h *ChatHandler) QueryHandler(c *gin.Context) {
	logger := getLogger(c)

	var query models.ChatQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		logger.Warn("Invalid chat query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Turns.HandleTurn(c.Request.Context(), conversation.TurnRequest{
		SessionID: query.SessionID,
		Question:  query.Question,
		TopK:      query.TopK,
		Namespace: query.Namespace,
	})
	if err != nil {
		var turnErr *conversation.TurnError
		if !errors.As(err, &turnErr) {
			logger.Error("Chat turn failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "chat turn failed", err.Error())
			return
		}
		c.JSON(turnErrorStatus(turnErr.Kind), models.ChatAnswer{
			SessionID: query.SessionID,
			Answer:    turnErr.UserMessage,
			Sources:   []models.Source{},
			Error:     string(turnErr.Kind),
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatAnswer{
		SessionID: query.SessionID,
		Answer:    resp.Answer,
		Sources:   resp.Sources,
	})
}

func turnErrorStatus(kind conversation.ErrorKind) int {
	switch kind {
	case conversation.KindDuplicate:
		return http.StatusConflict
	case conversation.KindClassifier, conversation.KindAnswer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetHistoryHandler returns the cached history window of a session.
func (h *ChatHandler) GetHistoryHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	messages, err := h.History.Recent(c.Request.Context(), sessionID, h.Window)
	if err != nil {
		getLogger(c).Error("Failed to read history", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}

// GetTranscriptHandler returns every stored message of a session, oldest first.
func (h *ChatHandler) GetTranscriptHandler(c *gin.Context) {
	logger := getLogger(c)
	sessionID := c.Param("sessionID")

	session, err := h.Transcripts.GetSession(c.Request.Context(), sessionID)
	if errors.Is(err, chatRepo.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to read session", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read transcript", err.Error())
		return
	}

	messages, err := h.Transcripts.ListMessages(c.Request.Context(), session.ID)
	if err != nil {
		logger.Error("Failed to read transcript", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read transcript", err.Error())
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "created_at": session.CreatedAt, "messages": messages})
}

// ClearHistoryHandler drops the cached history window. The transcript is kept.
func (h *ChatHandler) ClearHistoryHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.History.Clear(c.Request.Context(), sessionID); err != nil {
		getLogger(c).Error("Failed to clear history", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to clear history", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLastBookingHandler returns the last booking made through the chat.
func (h *ChatHandler) GetLastBookingHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	record, err := h.History.LastBooking(c.Request.Context(), sessionID)
	if err != nil {
		getLogger(c).Error("Failed to read last booking", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read last booking", err.Error())
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no booking for this session"})
		return
	}
	c.JSON(http.StatusOK, record)
}
