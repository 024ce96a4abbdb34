package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardsage/cardsage/chat"
)

type chatRequest struct {
	Message string      `json:"message" binding:"required"`
	History []chat.Turn `json:"history" binding:"omitempty,dive"`
}

// handleChat runs one question through the chat pipeline. The widget sends
// the visible conversation as history; the new message becomes the final
// user turn.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	turns := append(req.History, chat.Turn{Role: chat.RoleUser, Content: req.Message})

	resp, err := s.generator.Generate(c.Request.Context(), turns)
	if err != nil {
		s.renderChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// renderChatError maps the pipeline's error taxonomy onto HTTP statuses.
// Only user-safe messages leave the process.
func (s *Server) renderChatError(c *gin.Context, err error) {
	var chatErr *chat.ChatError
	if !errors.As(err, &chatErr) {
		s.logger.Error("Chat request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	s.logger.Error("Chat request failed", "type", chatErr.TypeString(), "error", chatErr)

	switch chatErr.Type {
	case chat.ErrorTypeInvalidStructure:
		c.JSON(http.StatusBadRequest, gin.H{"error": chatErr.UserMessage()})
	case chat.ErrorTypeRateLimited:
		retryAfter := int(time.Until(chatErr.RetryAt).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      chatErr.UserMessage(),
			"retryAfter": retryAfter,
		})
	case chat.ErrorTypeServiceBusy:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": chatErr.UserMessage()})
	case chat.ErrorTypeAuth, chat.ErrorTypeService:
		c.JSON(http.StatusBadGateway, gin.H{"error": chatErr.UserMessage()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErr.UserMessage()})
	}
}
