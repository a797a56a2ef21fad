package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/models"
	"medibook/services/chat"
)

// ChatHandler fronts the messaging collaborator. Listing is
// most-recent-first; nothing stronger is promised.
type ChatHandler struct {
	Svc chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Svc: svc}
}

// ConversationsHandler lists the provider's threads, newest activity first.
func (h *ChatHandler) ConversationsHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	conversations, err := h.Svc.ListConversations(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// MessagesHandler lists one thread's messages, newest first.
func (h *ChatHandler) MessagesHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	patientID := c.Param("patientID")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing patient ID in path"})
		return
	}

	messages, err := h.Svc.ListMessages(c.Request.Context(), providerID, patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessageHandler posts a message into a thread as the provider.
func (h *ChatHandler) SendMessageHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	var req struct {
		PatientID string `json:"patientId" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	msg, err := h.Svc.SendMessage(c.Request.Context(), providerID, req.PatientID, models.SenderProvider, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message text is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"chat": msg})
}
