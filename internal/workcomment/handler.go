package workcomment

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

type WorkCommentHandler struct {
	service *WorkCommentService
}

func NewWorkCommentHandler(service *WorkCommentService) *WorkCommentHandler {
	return &WorkCommentHandler{service: service}
}

// List GET /works/:id/comments
func (h *WorkCommentHandler) List(c *gin.Context) {
	result, err := h.service.ListWorkComments(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// Create POST /works/:id/comments
func (h *WorkCommentHandler) Create(c *gin.Context) {
	var req CreateWorkCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateWorkComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, result)
}

// Delete DELETE /work-comments/:id
func (h *WorkCommentHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteWorkComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"deleted": true})
}

// ToggleLike POST /work-comments/:id/like
func (h *WorkCommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.service.ToggleCommentLike(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
