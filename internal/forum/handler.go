package forum

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	service     *ForumService
	maxPageSize int
}

func NewForumHandler(service *ForumService, maxPageSize int) *ForumHandler {
	return &ForumHandler{service: service, maxPageSize: maxPageSize}
}

// ListPosts GET /posts?category=&page=&pageSize=
func (h *ForumHandler) ListPosts(c *gin.Context) {
	result, err := h.service.ListPosts(c.Request.Context(), c.Query("category"), dto.ParsePage(c, h.maxPageSize))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// CreatePost POST /posts
func (h *ForumHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, result)
}

func (h *ForumHandler) GetPost(c *gin.Context) {
	result, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

func (h *ForumHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdatePost(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

func (h *ForumHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"deleted": true})
}

// ListUserPosts GET /users/:id/posts
func (h *ForumHandler) ListUserPosts(c *gin.Context) {
	result, err := h.service.ListPostsByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// ListComments GET /posts/:id/comments
func (h *ForumHandler) ListComments(c *gin.Context) {
	result, err := h.service.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// CreateComment POST /posts/:id/comments
func (h *ForumHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, result)
}

// UpdateComment PUT /comments/:id
func (h *ForumHandler) UpdateComment(c *gin.Context) {
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// DeleteComment DELETE /comments/:id
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	if err := h.service.DeleteComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"deleted": true})
}
