package api

import (
	"errors"
	"time"

	"supplement-advisor/internal/api/handlers/account"
	"supplement-advisor/internal/api/handlers/health"
	"supplement-advisor/internal/api/handlers/proxy"
	reminderHandler "supplement-advisor/internal/api/handlers/reminder"
	"supplement-advisor/internal/api/handlers/supplement"
	"supplement-advisor/internal/api/middleware"
	"supplement-advisor/internal/core/ingredient"
	reminderService "supplement-advisor/internal/core/reminder"
	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator 驗證 token 與建立帳號
type Authenticator interface {
	middleware.TokenVerifier
	account.Registrar
}

// Services 路由需要的已初始化服務
type Services struct {
	Extractor   *ingredient.Extractor
	Catalog     *ingredient.InfoCatalog
	Interaction supplement.Checker
	Recommend   supplement.Recommender
	Reminders   *reminderService.Service
	Auth        Authenticator
	Shopping    proxy.ProductSearcher
	FoodSafety  proxy.ProductRegistry
	Store       health.Pinger
	Queue       health.QueueReporter // 可為 nil
}

func (s *Services) validate() error {
	switch {
	case s == nil:
		return errors.New("services are required")
	case s.Extractor == nil || s.Catalog == nil:
		return errors.New("ingredient extractor is required")
	case s.Interaction == nil || s.Recommend == nil:
		return errors.New("reasoning services are required")
	case s.Reminders == nil || s.Store == nil:
		return errors.New("reminder store is required")
	case s.Auth == nil:
		return errors.New("auth service is required")
	case s.Shopping == nil || s.FoodSafety == nil:
		return errors.New("proxy clients are required")
	}
	return nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if err := svc.validate(); err != nil {
		common.LogError("Failed to initialize services", zap.Error(err))
		return nil, err
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	origins := cfg.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodySize))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svc.Store, svc.Queue)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group(cfg.Server.PathPrefix)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst)
		api.Use(limiter.Middleware())
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())
	{
		supplementHandler := supplement.NewHandler(svc.Extractor, svc.Catalog, svc.Interaction, svc.Recommend)
		api.POST("/recommend", supplementHandler.HandleRecommend)
		api.POST("/extract-ingredients", supplementHandler.HandleExtractIngredients)
		api.POST("/check-interactions", supplementHandler.HandleCheckInteractions)
		api.POST("/supplement-info", supplementHandler.HandleSupplementInfo)

		api.POST("/signup", account.NewHandler(svc.Auth).HandleSignup)

		proxyHandler := proxy.NewHandler(svc.Shopping, svc.FoodSafety)
		api.POST("/naver-shopping", proxyHandler.HandleNaverShopping)
		api.POST("/food-safety", proxyHandler.HandleFoodSafety)

		// 服用提醒，需登入
		reminders := api.Group("/reminders", middleware.RequireAuth(svc.Auth))
		{
			h := reminderHandler.NewHandler(svc.Reminders)
			reminders.POST("", h.HandleCreate)
			reminders.GET("", h.HandleList)
			reminders.GET("/today", h.HandleToday)
			reminders.DELETE("/:id", h.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("path_prefix", cfg.Server.PathPrefix),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodySize),
	)

	return router, nil
}
