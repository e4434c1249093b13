package service

import (
	"context"
	"strings"
	"time"

	"supplement-advisor/internal/core/ai/cache"
	"supplement-advisor/internal/core/ai/openai"
	"supplement-advisor/internal/core/ai/provider"
	"supplement-advisor/internal/core/ai/queue"
	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Response AI 回應
type Response struct {
	Content string
	Cached  bool
}

// Service 推理服務統一入口
type Service struct {
	config       config.OpenAIConfig
	provider     provider.Provider
	cacheManager *cache.CacheManager
	limiter      *queue.Limiter
}

// NewService 以設定建立 OpenAI 客戶端
func NewService(cfg config.OpenAIConfig, cacheManager *cache.CacheManager) *Service {
	client := openai.NewClient(provider.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
		BaseURL:   cfg.BaseURL,
	})
	return NewServiceWithProvider(cfg, client, cacheManager)
}

// NewServiceWithProvider 使用指定的 provider（測試可注入替身）
func NewServiceWithProvider(cfg config.OpenAIConfig, p provider.Provider, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
	}
}

// WithLimiter 限制同時進行的推理呼叫
func (s *Service) WithLimiter(l *queue.Limiter) *Service {
	s.limiter = l
	return s
}

// QueueStatus 推理隊列狀態；未設定限制時為 nil
func (s *Service) QueueStatus() *queue.Status {
	return s.limiter.Status()
}

// Configured 是否已設定推理服務憑證
func (s *Service) Configured() bool {
	return strings.TrimSpace(s.config.APIKey) != ""
}

// ProcessRequest 統一對外方法：檢查憑證、查快取、最多呼叫一次推理服務。
// 設定了 req.Validate 時，只有通過驗證的回應才會寫入快取。
func (s *Service) ProcessRequest(ctx context.Context, req *provider.Request) (*Response, error) {
	if !s.Configured() {
		common.LogError("推理服務未設定", zap.String("purpose", req.Purpose))
		return nil, common.NewConfigurationError(
			"OpenAI API key not configured",
			"OPENAI_API_KEY 환경 변수가 설정되지 않았습니다.",
		)
	}

	var key string
	if s.cacheManager != nil {
		key = cache.Key(s.provider.GetModel(), req)
		if val, ok := s.cacheManager.Get(key); ok {
			if req.Validate == nil || req.Validate(val) == nil {
				return &Response{Content: val, Cached: true}, nil
			}
			common.LogWarn("快取內容驗證失敗，重新呼叫推理服務", zap.String("purpose", req.Purpose))
		}
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if timeout := s.provider.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(req.Purpose, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if req.Validate != nil {
		if err := req.Validate(resp.Content); err != nil {
			common.LogWarn("推理回應驗證失敗，不寫入快取", zap.String("purpose", req.Purpose), zap.Error(err))
			return nil, err
		}
	}

	if s.cacheManager != nil {
		if err := s.cacheManager.Set(key, resp.Content); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}

	return &Response{Content: resp.Content}, nil
}

// Close 關閉底層 provider
func (s *Service) Close() error {
	return s.provider.Close()
}
