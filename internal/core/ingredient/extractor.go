package ingredient

import (
	"fmt"
	"strings"

	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Extractor 以關鍵字表從產品名稱擷取標準成分；無副作用，可併發使用
type Extractor struct {
	lexicon *Lexicon
}

// NewExtractor 創建成分擷取器
func NewExtractor(lexicon *Lexicon) *Extractor {
	return &Extractor{lexicon: lexicon}
}

// Lexicon 取得使用中的關鍵字表
func (e *Extractor) Lexicon() *Lexicon {
	return e.lexicon
}

// Extract 回傳產品名稱中出現的標準成分（去重、依匹配順序）。
// 沒有任何關鍵字時回傳空切片，代表「無法辨識」而非「沒有成分」。
func (e *Extractor) Extract(productName string) []string {
	text := normalize(productName)
	result := []string{}
	if text == "" {
		return result
	}

	seen := make(map[string]bool)
	for _, kw := range e.lexicon.keywords {
		var matched bool
		text, matched = consume(text, kw)
		if !matched || kw.canonical == "" || seen[kw.canonical] {
			continue
		}
		seen[kw.canonical] = true
		result = append(result, kw.canonical)
	}
	return result
}

// ExtractProduct 擷取成功才建立 Product；零成分回傳 NotFound
func (e *Extractor) ExtractProduct(productName string) (*common.Product, error) {
	name := strings.TrimSpace(productName)
	if name == "" {
		return nil, common.NewValidationError("제품명을 입력해주세요.")
	}

	ingredients := e.Extract(name)
	if len(ingredients) == 0 {
		common.LogDebug("No ingredients matched",
			zap.String("product_name", name),
		)
		return nil, common.NewNotFoundError("영양 성분을 찾을 수 없습니다. 제품명을 다시 확인해주세요.")
	}

	return &common.Product{Name: name, Ingredients: ingredients}, nil
}

// ExtractMessage 擷取結果對應的提示文字
func ExtractMessage(ingredients []string) string {
	if len(ingredients) == 0 {
		return "영양 성분을 찾을 수 없습니다. 제품명을 다시 확인해주세요."
	}
	return fmt.Sprintf("%d개의 영양 성분을 찾았습니다.", len(ingredients))
}
