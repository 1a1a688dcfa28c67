package handler

import (
	"context"
	"net/http"

	"socialhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	svc service.ReactionService
}

func NewReactionHandler(svc service.ReactionService) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

func (h *ReactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:post_id/reactions/toggle", h.Toggle)
	rg.GET("/:post_id/reactions/me", h.HasReacted)
}

// Toggle likes the post or takes the like back
func (h *ReactionHandler) Toggle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	liked, err := h.svc.Toggle(ctx, userID, c.Param("post_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// HasReacted reports whether the authenticated user has liked the post
func (h *ReactionHandler) HasReacted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	liked, err := h.svc.HasReacted(ctx, userID, c.Param("post_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
