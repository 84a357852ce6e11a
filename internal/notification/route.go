package notification

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes 注册通知路由，全部需要登录
func SetupNotificationRoutes(r *gin.RouterGroup, service *NotificationService, jwtSecret string) {
	handler := NewNotificationHandler(service)

	notifications := r.Group("/notifications")
	notifications.Use(middleware.JWTAuth(jwtSecret))
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread-count", handler.UnreadCount)
		notifications.POST("/read-all", handler.MarkAllRead)
		notifications.POST("/:id/read", handler.MarkRead)
	}
}
