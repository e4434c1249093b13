package interaction

import (
	"fmt"
	"strings"

	"supplement-advisor/internal/core/ai/provider"
	"supplement-advisor/internal/core/ingredient"
	"supplement-advisor/internal/pkg/common"
)

const systemPrompt = "당신은 영양제 상호작용 전문가입니다. 여러 영양제를 동시에 복용할 때의 안전성을 평가하고, 성분 간 상호작용을 분석합니다. 항상 JSON 형식으로만 응답하세요."

const responseSchema = `{
  "interactions": [
    {
      "supplement": "제품명",
      "extractedIngredients": ["성분1", "성분2"],
      "conflicts": ["충돌하는 다른 제품명"],
      "conflictIngredients": ["충돌하는 성분"],
      "warning": "상세한 경고 메시지 (한국어)",
      "severity": "high|medium|low",
      "recommendation": "복용 권장사항 (한국어)"
    }
  ],
  "overallSafety": "safe|caution|warning",
  "generalAdvice": "전반적인 조언 (한국어)"
}`

// conflictCategories 提示推理服務需要檢查的衝突類型
var conflictCategories = []string{
	"같이 복용하면 흡수율이 감소하는 경우 (예: 칼슘+철분, 칼슘+마그네슘)",
	"출혈 위험이 증가하는 경우 (예: 오메가3+은행잎, 비타민E+혈액응고제)",
	"독성이 증가하는 경우 (예: 고용량 비타민A+비타민D)",
	"다른 약물의 효과를 변경시키는 경우",
}

// Request 已驗證的交互作用分析請求
type Request struct {
	// Products 依輸入順序，含本地擷取結果（可能為空）
	Products []common.Product
	// Ingredients 所有產品的成分聯集
	Ingredients []string
	AI          *provider.Request
}

// Builder 組裝交互作用分析的推理請求
type Builder struct {
	extractor   *ingredient.Extractor
	temperature float64
}

// NewBuilder 創建請求組裝器
func NewBuilder(extractor *ingredient.Extractor, temperature float64) *Builder {
	return &Builder{extractor: extractor, temperature: temperature}
}

// Build 驗證產品清單並產生推理請求。
// 不重複的產品少於 2 個，或成分聯集少於 2 種時回傳 InsufficientInput。
func (b *Builder) Build(names []string) (*Request, error) {
	unique := dedupeNames(names)
	if len(unique) < 2 {
		return nil, common.NewInsufficientInputError("상호작용을 확인하려면 2개 이상의 영양제를 입력해주세요.")
	}

	req := &Request{Products: make([]common.Product, 0, len(unique))}
	seen := make(map[string]bool)
	for _, name := range unique {
		ingredients := b.extractor.Extract(name)
		req.Products = append(req.Products, common.Product{Name: name, Ingredients: ingredients})
		for _, ing := range ingredients {
			if !seen[ing] {
				seen[ing] = true
				req.Ingredients = append(req.Ingredients, ing)
			}
		}
	}

	if len(req.Ingredients) < 2 {
		return nil, common.NewInsufficientInputError("상호작용을 확인하려면 서로 다른 영양 성분이 2개 이상 필요합니다.")
	}

	req.AI = &provider.Request{
		Purpose:     "interaction",
		System:      systemPrompt,
		Prompt:      renderPrompt(req.Products),
		Temperature: b.temperature,
		JSONMode:    true,
		Validate:    validateReply,
	}
	return req, nil
}

func validateReply(content string) error {
	_, err := Normalize([]byte(content))
	return err
}

// dedupeNames 去除空白與大小寫重複，保留第一次出現的寫法
func dedupeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(strings.Join(strings.Fields(name), " "))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func renderPrompt(products []common.Product) string {
	var sb strings.Builder

	sb.WriteString("다음 영양제 제품들을 분석해주세요:\n")
	for i, p := range products {
		fmt.Fprintf(&sb, "%d. %s", i+1, p.Name)
		if len(p.Ingredients) > 0 {
			fmt.Fprintf(&sb, " (참고 성분: %s)", common.StringSliceToString(p.Ingredients))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n각 제품명에서 주요 영양 성분을 독립적으로 추출하고, 이들 성분 간의 상호작용을 분석해주세요.\n")
	sb.WriteString("참고 성분은 키워드 매칭 결과이므로 틀릴 수 있습니다.\n\n")
	sb.WriteString("응답 형식 (반드시 JSON):\n")
	sb.WriteString(responseSchema)
	sb.WriteString("\n\n상호작용이 없으면 interactions 배열을 비우고 overallSafety는 safe로 해주세요.\n")
	sb.WriteString("주의사항:\n")
	for _, c := range conflictCategories {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("JSON 외의 다른 텍스트는 포함하지 마세요.")

	return sb.String()
}
