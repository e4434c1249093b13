package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplement-advisor/internal/api"
	"supplement-advisor/internal/core/ai/cache"
	"supplement-advisor/internal/core/ai/queue"
	aiService "supplement-advisor/internal/core/ai/service"
	"supplement-advisor/internal/core/ingredient"
	"supplement-advisor/internal/core/interaction"
	"supplement-advisor/internal/core/recommend"
	"supplement-advisor/internal/core/reminder"
	"supplement-advisor/internal/infrastructure/auth"
	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/infrastructure/foodsafety"
	"supplement-advisor/internal/infrastructure/kv"
	"supplement-advisor/internal/infrastructure/shopping"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openai_key", common.MaskAPIKey(cfg.OpenAI.APIKey)),
		zap.String("openai_model", cfg.OpenAI.Model),
		zap.String("kv_driver", cfg.KV.Driver),
	)

	// 成分關鍵字表：內建 + 額外檔案
	lexicon, err := ingredient.LoadLexicon(cfg.Lexicon.ExtraPath)
	if err != nil {
		common.LogFatal("Failed to load lexicon", zap.Error(err))
	}
	common.LogInfo("關鍵字表已載入",
		zap.Int("keywords", lexicon.Len()),
		zap.Int("canonicals", lexicon.CanonicalCount()),
	)

	// 提醒儲存
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := kv.New(startCtx, cfg.KV)
	cancelStart()
	if err != nil {
		common.LogFatal("Failed to initialize kv store", zap.Error(err))
	}
	defer store.Close()

	// 推理服務與快取；快取關閉時 cacheManager 為 nil
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()
	reasoner := aiService.NewService(cfg.OpenAI, cacheManager).WithLimiter(queue.NewLimiter(cfg.Queue))
	defer reasoner.Close()
	if !reasoner.Configured() {
		common.LogWarn("OPENAI_API_KEY 未設定，推薦與交互作用分析將回傳設定錯誤")
	}

	extractor := ingredient.NewExtractor(lexicon)
	services := &api.Services{
		Extractor:   extractor,
		Catalog:     ingredient.NewInfoCatalog(extractor),
		Interaction: interaction.NewService(interaction.NewBuilder(extractor, cfg.OpenAI.InteractionTemperature), reasoner),
		Recommend:   recommend.NewService(reasoner, cfg.OpenAI.RecommendTemperature),
		Reminders:   reminder.NewService(store),
		Auth:        auth.NewSupabaseClient(cfg.Supabase),
		Shopping:    shopping.NewNaverClient(cfg.Naver),
		FoodSafety:  foodsafety.NewClient(cfg.FoodSafety),
		Store:       store,
		Queue:       reasoner,
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, services)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
