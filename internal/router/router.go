package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"comment-sync-api/internal/config"
	"comment-sync-api/internal/handler"
	"comment-sync-api/internal/metrics"
	"comment-sync-api/internal/middleware"
)

// Config carries everything the router needs to wire routes
type Config struct {
	AppConfig         *config.Config
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
	WebhookHandler    *handler.WebhookHandler
	CommentHandler    *handler.CommentHandler
	AutomationHandler *handler.AutomationHandler
	HealthHandler     *handler.HealthHandler
}

// Setup builds the gin engine with all middleware and routes
func Setup(cfg Config) *gin.Engine {
	if cfg.AppConfig.Server.Mode == "release" || cfg.AppConfig.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS())
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health and observability endpoints
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Webhook endpoints live outside the API base path; the platform
	// calls them directly
	r.GET("/webhook", cfg.WebhookHandler.Verify)
	r.POST("/webhook", cfg.WebhookHandler.Receive)

	api := r.Group(cfg.AppConfig.Server.BasePath)
	{
		api.GET("/health", cfg.HealthHandler.Health)
		api.GET("/ready", cfg.HealthHandler.Ready)

		comments := api.Group("/comments")
		{
			comments.GET("", cfg.CommentHandler.ListComments)
			comments.GET("/:commentId", cfg.CommentHandler.GetComment)
			comments.DELETE("/:commentId", cfg.CommentHandler.DeleteComment)
			comments.POST("/:commentId/hide", cfg.CommentHandler.HideComment)
			comments.POST("/:commentId/unhide", cfg.CommentHandler.UnhideComment)
			comments.POST("/:commentId/reply", cfg.CommentHandler.ReplyToComment)
			comments.GET("/:commentId/activity", cfg.CommentHandler.GetActivityLogs)
			comments.GET("/:commentId/suggestions", cfg.CommentHandler.GetSuggestions)
			comments.POST("/:commentId/suggestions", cfg.CommentHandler.GenerateSuggestion)
		}

		api.POST("/rescan", cfg.CommentHandler.RescanPost)

		automation := api.Group("/automation")
		{
			automation.GET("/:platform", cfg.AutomationHandler.GetConfig)
			automation.PUT("/:platform", cfg.AutomationHandler.UpdateConfig)
		}
	}

	return r
}
