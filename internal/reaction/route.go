package reaction

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReactionRoutes 注册点赞收藏路由
func SetupReactionRoutes(r *gin.RouterGroup, service *ReactionService, jwtSecret string) {
	handler := NewReactionHandler(service)

	works := r.Group("/works")
	works.Use(middleware.OptionalJWTAuth(jwtSecret))
	{
		works.GET("/:id/reactions", handler.GetStatus)
	}

	worksAuth := r.Group("/works")
	worksAuth.Use(middleware.JWTAuth(jwtSecret))
	{
		worksAuth.POST("/:id/like", handler.Like)
		worksAuth.DELETE("/:id/like", handler.Unlike)
		worksAuth.POST("/:id/favorite", handler.Favorite)
		worksAuth.DELETE("/:id/favorite", handler.Unfavorite)
	}

	me := r.Group("/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	{
		me.GET("/favorites", handler.ListFavorites)
	}
}
