package route

import (
	"context"
	"net/http"
	"time"

	"github.com/mooner2666/inke3/config"
	"github.com/mooner2666/inke3/internal/forum"
	"github.com/mooner2666/inke3/internal/middleware"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/reaction"
	"github.com/mooner2666/inke3/internal/search"
	"github.com/mooner2666/inke3/internal/work"
	"github.com/mooner2666/inke3/internal/workcomment"
	"github.com/mooner2666/inke3/packages/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps 路由依赖，Cache 与 Registry 可以为空
type Deps struct {
	Config   *config.AppConfig
	DB       *gorm.DB
	Cache    *database.RedisClient
	Registry *prometheus.Registry
}

func initRoute(api *gin.RouterGroup, deps Deps) {
	conf := deps.Config
	db := deps.DB
	secret := conf.JWT.Secret
	maxPageSize := conf.Community.MaxPageSize

	// 初始化依赖
	profileService := profile.NewProfileService(profile.NewProfileRepository(db))
	notificationService := notification.NewNotificationService(
		notification.NewNotificationRepository(db),
		profileService,
		deps.Cache,
		notification.Options{
			Limit:    conf.Community.NotificationLimit,
			CacheTTL: conf.Community.UnreadCacheTTL,
		},
	)
	workService := work.NewWorkService(db, work.NewWorkRepository(db), profileService, deps.Cache, work.Options{
		ViewDedupeWindow: conf.Community.ViewDedupeWindow,
	})
	forumService := forum.NewForumService(db, forum.NewForumRepository(db), profileService, notificationService)
	reactionService := reaction.NewReactionService(db, reaction.NewReactionRepository(db), notificationService, workService)
	workCommentService := workcomment.NewWorkCommentService(db, workcomment.NewWorkCommentRepository(db), profileService, notificationService)
	searchService := search.NewSearchService(search.NewSearchRepository(db), workService, forumService, profileService, search.Options{})

	search.SetupSearchRoutes(api, searchService)
	profile.SetupProfileRoutes(api, profileService, secret)
	work.SetupWorkRoutes(api, workService, secret, maxPageSize)
	reaction.SetupReactionRoutes(api, reactionService, secret)
	workcomment.SetupWorkCommentRoutes(api, workCommentService, secret)
	forum.SetupForumRoutes(api, forumService, secret, maxPageSize)
	notification.SetupNotificationRoutes(api, notificationService, secret)
}

// SetupRouter 构建 HTTP 路由
func SetupRouter(deps Deps) *gin.Engine {
	conf := deps.Config
	gin.SetMode(conf.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	if conf.Metrics.Enabled && deps.Registry != nil {
		metrics := middleware.NewMetrics(deps.Registry)
		r.Use(metrics.Handler())
		r.GET(conf.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{conf.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", healthz(deps.DB))

	initRoute(r.Group("/api/v1"), deps)
	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
