package interaction

import (
	"context"

	"supplement-advisor/internal/core/ai/provider"
	aiservice "supplement-advisor/internal/core/ai/service"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Reasoner 推理服務
type Reasoner interface {
	ProcessRequest(ctx context.Context, req *provider.Request) (*aiservice.Response, error)
}

// Service 多產品交互作用檢查
type Service struct {
	builder  *Builder
	reasoner Reasoner
}

// NewService 創建交互作用檢查服務
func NewService(builder *Builder, reasoner Reasoner) *Service {
	return &Service{builder: builder, reasoner: reasoner}
}

// Check 組裝請求、呼叫推理服務一次並驗證結果
func (s *Service) Check(ctx context.Context, names []string) (*common.InteractionReport, error) {
	req, err := s.builder.Build(names)
	if err != nil {
		return nil, err
	}

	common.LogInfo("開始交互作用分析",
		zap.Int("products", len(req.Products)),
		zap.Strings("ingredients", req.Ingredients),
	)

	resp, err := s.reasoner.ProcessRequest(ctx, req.AI)
	if err != nil {
		return nil, err
	}

	report, err := Normalize([]byte(resp.Content))
	if err != nil {
		common.LogError("交互作用分析結果格式錯誤", zap.Error(err))
		return nil, err
	}

	common.LogInfo("交互作用分析完成",
		zap.Int("interactions", len(report.Interactions)),
		zap.String("overall_safety", string(report.OverallSafety)),
		zap.String("highest_severity", string(HighestSeverity(report))),
	)
	return report, nil
}
