package workcomment

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWorkCommentRoutes 注册作品评论路由
func SetupWorkCommentRoutes(r *gin.RouterGroup, service *WorkCommentService, jwtSecret string) {
	handler := NewWorkCommentHandler(service)

	works := r.Group("/works")
	works.Use(middleware.OptionalJWTAuth(jwtSecret))
	{
		works.GET("/:id/comments", handler.List)
	}

	worksAuth := r.Group("/works")
	worksAuth.Use(middleware.JWTAuth(jwtSecret))
	{
		worksAuth.POST("/:id/comments", handler.Create)
	}

	comments := r.Group("/work-comments")
	comments.Use(middleware.JWTAuth(jwtSecret))
	{
		comments.DELETE("/:id", handler.Delete)
		comments.POST("/:id/like", handler.ToggleLike)
	}
}
