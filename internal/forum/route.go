package forum

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupForumRoutes 注册帖子与评论路由
func SetupForumRoutes(r *gin.RouterGroup, service *ForumService, jwtSecret string, maxPageSize int) {
	handler := NewForumHandler(service, maxPageSize)

	posts := r.Group("/posts")
	{
		posts.GET("", handler.ListPosts)
		posts.GET("/:id", handler.GetPost)
		posts.GET("/:id/comments", handler.ListComments)
	}

	postsAuth := r.Group("/posts")
	postsAuth.Use(middleware.JWTAuth(jwtSecret))
	{
		postsAuth.POST("", handler.CreatePost)
		postsAuth.PUT("/:id", handler.UpdatePost)
		postsAuth.DELETE("/:id", handler.DeletePost)
		postsAuth.POST("/:id/comments", handler.CreateComment)
	}

	comments := r.Group("/comments")
	comments.Use(middleware.JWTAuth(jwtSecret))
	{
		comments.PUT("/:id", handler.UpdateComment)
		comments.DELETE("/:id", handler.DeleteComment)
	}

	r.GET("/users/:id/posts", handler.ListUserPosts)
}
