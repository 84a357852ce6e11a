package reaction

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	service *ReactionService
}

func NewReactionHandler(service *ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) respond(c *gin.Context, result *StatusResponse, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// Like POST /works/:id/like
func (h *ReactionHandler) Like(c *gin.Context) {
	result, err := h.service.Like(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	h.respond(c, result, err)
}

// Unlike DELETE /works/:id/like
func (h *ReactionHandler) Unlike(c *gin.Context) {
	result, err := h.service.Unlike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	h.respond(c, result, err)
}

// Favorite POST /works/:id/favorite
func (h *ReactionHandler) Favorite(c *gin.Context) {
	result, err := h.service.Favorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	h.respond(c, result, err)
}

// Unfavorite DELETE /works/:id/favorite
func (h *ReactionHandler) Unfavorite(c *gin.Context) {
	result, err := h.service.Unfavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	h.respond(c, result, err)
}

// GetStatus GET /works/:id/reactions
func (h *ReactionHandler) GetStatus(c *gin.Context) {
	result, err := h.service.GetStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	h.respond(c, result, err)
}

// ListFavorites GET /me/favorites
func (h *ReactionHandler) ListFavorites(c *gin.Context) {
	result, err := h.service.ListFavorites(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
