package handler

import (
	"context"
	"net/http"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	svc service.FriendService
}

func NewFriendHandler(svc service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

func (h *FriendHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.SendRequest)
	rg.PUT("/:id/accept", h.Accept)
	rg.PUT("/:id/reject", h.Reject)
}

// SendRequest creates a friend request from the authenticated user
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SendFriendRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	request, err := h.svc.SendRequest(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"friend_request": request})
}

// Accept resolves a pending request addressed to the authenticated user
func (h *FriendHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	request, err := h.svc.Accept(ctx, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friend_request": request})
}

// Reject declines a pending request addressed to the authenticated user
func (h *FriendHandler) Reject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Reject(ctx, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
