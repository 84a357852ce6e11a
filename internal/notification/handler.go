package notification

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *NotificationService
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// UnreadCount GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	result, err := h.service.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// MarkRead POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// MarkAllRead POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}
