package profile

import (
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes 注册用户资料路由
func SetupProfileRoutes(r *gin.RouterGroup, service *ProfileService, jwtSecret string) {
	handler := NewProfileHandler(service)

	// GET /profiles/:id 个人主页由 search 注册
	profiles := r.Group("/profiles")
	{
		profiles.GET("/by-username/:username", handler.GetProfileByUsername)
	}

	profilesAuth := r.Group("/profiles")
	profilesAuth.Use(middleware.JWTAuth(jwtSecret))
	{
		profilesAuth.POST("", handler.CreateProfile)
		profilesAuth.GET("/me", handler.GetMe)
		profilesAuth.PATCH("/me", handler.UpdateMe)
	}
}
