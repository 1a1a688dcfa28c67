package handler

import (
	"context"
	"net/http"
	"time"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

type MessageHandler struct {
	svc service.MessageService
}

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Send)
	rg.GET("/conversations", h.GetConversations)
	rg.GET("/conversation/:user_id", h.GetConversation)
	rg.PUT("/conversation/:user_id/read-all", h.MarkAllAsRead)
	rg.PUT("/:id/read", h.MarkAsRead)
	rg.POST("/:id/reactions", h.React)
	rg.DELETE("/:id/reactions", h.RemoveReaction)
	rg.DELETE("/:id", h.Delete)
}

// Send delivers a direct message from the authenticated user
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	message, err := h.svc.SendMessage(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// GetConversations returns the inbox view for the authenticated user
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	conversations, err := h.svc.GetConversations(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation returns all messages exchanged with one user
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	messages, err := h.svc.GetConversation(ctx, userID, c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkAllAsRead flags every unread message from the given user as read
func (h *MessageHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.MarkAllAsRead(ctx, userID, c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAsRead flags one received message as read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	message, err := h.svc.MarkAsRead(ctx, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// React sets or replaces the authenticated user's reaction on a message
func (h *MessageHandler) React(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ReactToMessageDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	message, err := h.svc.ReactToMessage(ctx, c.Param("id"), userID, req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// RemoveReaction deletes the authenticated user's reaction on a message
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.RemoveReaction(ctx, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a sent message together with its media and reactions
func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.DeleteMessage(ctx, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
