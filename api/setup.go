package api

import (
	"time"

	aichatHandlers "backend/api/handlers/aichat"
	authHandlers "backend/api/handlers/auth"
	providerHandlers "backend/api/handlers/providers"
	templateHandlers "backend/api/handlers/templates"
	usageHandlers "backend/api/handlers/usage"
	"backend/internal/ai"
	authSvc "backend/internal/auth"
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/metrics"
	middlewarepkg "backend/internal/middleware"
	"backend/internal/prompt"
	"backend/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRouter 组装服务与路由
func SetupRouter(db *gorm.DB, redisClient redis.UniversalClient, cfg *config.Config) *gin.Engine {
	router := gin.New()

	log := logger.Get()

	// 服务层
	jwtService := authSvc.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, redisClient).
		WithExpiry(cfg.Auth.AccessExpiry, cfg.Auth.RefreshExpiry)
	authService := authSvc.NewService(db, jwtService)

	resolver := provider.NewResolver(db, log)
	assembler := prompt.NewAssembler(db)
	recorder := ai.NewUsageRecorder(db, log)
	dispatcher := ai.NewDispatcher(resolver, assembler, recorder, log)

	providerService := provider.NewService(db)
	templateService := prompt.NewService(db)
	usageService := ai.NewUsageService(db)

	// Handler 层
	handlers := &routeHandlers{
		auth:      authHandlers.NewHandler(authService),
		aichat:    aichatHandlers.NewHandler(authService, dispatcher),
		providers: providerHandlers.NewHandler(providerService),
		templates: templateHandlers.NewHandler(templateService),
		usage:     usageHandlers.NewHandler(usageService),
	}

	// 对话接口限流
	chatLimiter := middlewarepkg.NewRateLimiter(&middlewarepkg.RateLimiterConfig{
		RequestsPerMinute: cfg.AI.RateLimitPerMinute,
		BurstSize:         cfg.AI.RateLimitBurst,
		CleanupInterval:   5 * time.Minute,
	})

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(middlewarepkg.RequestID())
	router.Use(RequestLogger())
	router.Use(CORS(&cfg.CORS))
	router.Use(metrics.Middleware())

	registerRoutes(router, db, authService, handlers, chatLimiter)

	return router
}

// routeHandlers 路由 Handler 集合
type routeHandlers struct {
	auth      *authHandlers.Handler
	aichat    *aichatHandlers.Handler
	providers *providerHandlers.Handler
	templates *templateHandlers.Handler
	usage     *usageHandlers.Handler
}
