package work

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWorkRoutes 注册作品、章节与标签路由
func SetupWorkRoutes(r *gin.RouterGroup, service *WorkService, jwtSecret string, maxPageSize int) {
	handler := NewWorkHandler(service, maxPageSize)

	works := r.Group("/works")
	{
		works.GET("", handler.ListWorks)
		works.GET("/:id/chapters", handler.ListChapters)
		works.GET("/:id/chapters/:number", handler.GetChapter)
	}

	// 可选认证：登录用户按用户去重阅读量
	worksOptional := r.Group("/works")
	worksOptional.Use(middleware.OptionalJWTAuth(jwtSecret))
	{
		worksOptional.GET("/:id", handler.GetWork)
	}

	worksAuth := r.Group("/works")
	worksAuth.Use(middleware.JWTAuth(jwtSecret))
	{
		worksAuth.POST("", handler.CreateWork)
		worksAuth.PUT("/:id", handler.UpdateWork)
		worksAuth.DELETE("/:id", handler.DeleteWork)
	}

	r.GET("/users/:id/works", handler.ListUserWorks)
	r.GET("/tags", handler.ListTags)
}
