package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"supplement-advisor/internal/core/ai/queue"
	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// ReadinessResponse 就緒檢查；credentials 只標示是否設定，不含值
type ReadinessResponse struct {
	Status      string          `json:"status"`
	Store       string          `json:"store"`
	Credentials map[string]bool `json:"credentials"`
}

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueReporter 推理隊列狀態
type QueueReporter interface {
	QueueStatus() *queue.Status
}

// Handler 健康檢查
type Handler struct {
	cfg   *config.Config
	store Pinger
	queue QueueReporter
}

// NewHandler 創建健康檢查處理程序；queue 可為 nil
func NewHandler(cfg *config.Config, store Pinger, q QueueReporter) *Handler {
	return &Handler{cfg: cfg, store: store, queue: q}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.queue != nil {
		resp.Queue = h.queue.QueueStatus()
	}

	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck KV 無法連線時回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	resp := ReadinessResponse{
		Status: "ready",
		Store:  "ok",
		Credentials: map[string]bool{
			"openai":      h.cfg.OpenAI.APIKey != "",
			"supabase":    h.cfg.Supabase.URL != "" && h.cfg.Supabase.ServiceRoleKey != "",
			"naver":       h.cfg.Naver.ClientID != "" && h.cfg.Naver.ClientSecret != "",
			"food_safety": h.cfg.FoodSafety.APIKey != "",
		},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		common.LogError("KV 儲存無法連線", zap.Error(err))
		resp.Status = "not_ready"
		resp.Store = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
