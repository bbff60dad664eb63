package api

import (
	"net/http"

	authpkg "backend/internal/auth"
	middlewarepkg "backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// registerRoutes 注册全部路由
func registerRoutes(router *gin.Engine, db *gorm.DB, authService *authpkg.Service, h *routeHandlers, chatLimiter *middlewarepkg.RateLimiter) {
	// 健康检查
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus 指标
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")

	// 认证（公开）
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/login", h.auth.Login)
		authGroup.POST("/refresh", h.auth.Refresh)
	}

	// AI 对话：身份解析在 Handler 内完成，保持带内错误契约，这里只挂限流
	apiGroup.POST("/ai/chat", chatLimiter.Handler(), h.aichat.Chat)

	// 管理接口（JWT 认证）
	authed := apiGroup.Group("")
	authed.Use(authpkg.Middleware(authService))
	{
		authed.GET("/auth/me", h.auth.Me)
		authed.POST("/auth/logout", h.auth.Logout)

		providerGroup := authed.Group("/providers")
		{
			providerGroup.GET("", h.providers.List)
			providerGroup.POST("", h.providers.Create)
			providerGroup.GET("/:id", h.providers.Get)
			providerGroup.PUT("/:id", h.providers.Update)
			providerGroup.DELETE("/:id", h.providers.Delete)
		}

		templateGroup := authed.Group("/templates")
		{
			templateGroup.GET("", h.templates.List)
			templateGroup.POST("", h.templates.Create)
			templateGroup.GET("/:id", h.templates.Get)
			templateGroup.PUT("/:id", h.templates.Update)
			templateGroup.DELETE("/:id", h.templates.Delete)
		}

		usageGroup := authed.Group("/usage-logs")
		{
			usageGroup.GET("", h.usage.List)
			usageGroup.GET("/totals", h.usage.Totals)
		}
	}
}
