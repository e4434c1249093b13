package recommend

import (
	"context"
	"fmt"
	"strings"

	"supplement-advisor/internal/core/ai/provider"
	aiservice "supplement-advisor/internal/core/ai/service"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

const systemPrompt = "당신은 영양제 및 건강 보조 식품 전문가입니다. 사용자의 증상을 분석하고 적절한 영양제와 구체적인 제품을 추천합니다. 항상 JSON 형식으로만 응답하세요."

const promptTemplate = `사용자가 다음과 같은 증상을 호소하고 있습니다: "%s"

이 증상에 도움이 될 수 있는 영양제를 추천하고, 각 영양제에 대한 구체적인 제품명(브랜드 포함)도 함께 제시해주세요.

응답 형식 (반드시 JSON):
{
  "supplements": [
    {
      "name": "영양제 성분명 (예: 비타민D)",
      "description": "이 영양제가 증상에 도움이 되는 이유",
      "benefits": ["효능1", "효능2", "효능3"],
      "dosage": "권장 복용량",
      "recommendedProducts": [
        {
          "productName": "구체적인 제품명 (예: 종근당 비타민D 2000IU)",
          "brand": "브랜드명",
          "features": "제품 특징",
          "estimatedPrice": "예상 가격대 (예: 15,000-20,000원)"
        }
      ]
    }
  ],
  "generalAdvice": "전반적인 건강 조언",
  "precautions": ["주의사항1", "주의사항2"]
}

- 실제 한국 시장에서 구매 가능한 유명 브랜드 제품을 추천하세요 (센트룸, 종근당, 뉴트리코어, 솔가, 닥터스베스트, 나우푸드, 쏜리서치, 라이프익스텐션 등)
- 각 영양제당 2-3개의 구체적인 제품을 추천하세요
- 가격대도 현실적으로 제시하세요`

// Reasoner 推理服務
type Reasoner interface {
	ProcessRequest(ctx context.Context, req *provider.Request) (*aiservice.Response, error)
}

// Service 症狀 → 營養補充品推薦
type Service struct {
	reasoner    Reasoner
	temperature float64
}

// NewService 創建推薦服務
func NewService(reasoner Reasoner, temperature float64) *Service {
	return &Service{reasoner: reasoner, temperature: temperature}
}

// BuildRequest 症狀原樣放入 prompt，不做任何本地判斷
func (s *Service) BuildRequest(symptom string) (*provider.Request, error) {
	if strings.TrimSpace(symptom) == "" {
		return nil, common.NewValidationError("증상을 입력해주세요.")
	}
	return &provider.Request{
		Purpose:     "recommend",
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(promptTemplate, symptom),
		Temperature: s.temperature,
		JSONMode:    true,
		Validate:    validateReply,
	}, nil
}

func validateReply(content string) error {
	_, err := NormalizeRecommendation([]byte(content))
	return err
}

// Recommend 呼叫推理服務一次並驗證結果
func (s *Service) Recommend(ctx context.Context, symptom string) (*common.RecommendationReport, error) {
	req, err := s.BuildRequest(symptom)
	if err != nil {
		return nil, err
	}

	resp, err := s.reasoner.ProcessRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	report, err := NormalizeRecommendation([]byte(resp.Content))
	if err != nil {
		common.LogError("推薦結果格式錯誤", zap.Error(err))
		return nil, err
	}

	common.LogInfo("推薦完成", zap.Int("supplements", len(report.Supplements)))
	return report, nil
}

type rawReport struct {
	Supplements   *[]rawSupplement `json:"supplements"`
	GeneralAdvice string           `json:"generalAdvice"`
	Precautions   []string         `json:"precautions"`
}

type rawSupplement struct {
	Name                string                      `json:"name"`
	Description         string                      `json:"description"`
	Benefits            []string                    `json:"benefits"`
	Dosage              string                      `json:"dosage"`
	RecommendedProducts []common.RecommendedProduct `json:"recommendedProducts"`
}

// NormalizeRecommendation 驗證推薦回應：supplements 必須存在，每項都要有 name
func NormalizeRecommendation(raw []byte) (*common.RecommendationReport, error) {
	content := common.ExtractJSONObject(string(raw))

	var parsed rawReport
	if err := common.ParseJSON(content, &parsed); err != nil {
		return nil, common.NewMalformedResponseError("response is not a JSON object", err)
	}
	if parsed.Supplements == nil {
		return nil, common.NewMalformedResponseError("missing supplements", nil)
	}

	report := &common.RecommendationReport{
		Supplements:   make([]common.SupplementRecommendation, 0, len(*parsed.Supplements)),
		GeneralAdvice: parsed.GeneralAdvice,
		Precautions:   parsed.Precautions,
	}
	if report.Precautions == nil {
		report.Precautions = []string{}
	}

	for i, sup := range *parsed.Supplements {
		if strings.TrimSpace(sup.Name) == "" {
			return nil, common.NewMalformedResponseError(fmt.Sprintf("supplements[%d]: missing name", i), nil)
		}
		item := common.SupplementRecommendation{
			Name:                sup.Name,
			Description:         sup.Description,
			Benefits:            sup.Benefits,
			Dosage:              sup.Dosage,
			RecommendedProducts: sup.RecommendedProducts,
		}
		if item.Benefits == nil {
			item.Benefits = []string{}
		}
		if item.RecommendedProducts == nil {
			item.RecommendedProducts = []common.RecommendedProduct{}
		}
		report.Supplements = append(report.Supplements, item)
	}

	return report, nil
}
