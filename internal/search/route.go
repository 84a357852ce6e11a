package search

import "github.com/gin-gonic/gin"

// SetupSearchRoutes 注册首页、搜索与个人主页路由
func SetupSearchRoutes(r *gin.RouterGroup, service *SearchService) {
	handler := NewSearchHandler(service)

	r.GET("/home", handler.Home)
	r.GET("/search", handler.Search)
	r.GET("/profiles/:id", handler.ProfilePage)
}
