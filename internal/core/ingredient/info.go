package ingredient

import (
	"supplement-advisor/internal/pkg/common"
)

// fallbackInfo 找不到資料時回傳的預設說明
var fallbackInfo = common.SupplementInfo{
	Description: "해당 영양제에 대한 정보를 찾을 수 없습니다.",
	Benefits:    []string{},
	Dosage:      "제품 라벨을 참조하세요.",
}

// InfoCatalog 營養素說明查詢
type InfoCatalog struct {
	extractor *Extractor
	info      map[string]common.SupplementInfo
}

// NewInfoCatalog 以內建說明建立
func NewInfoCatalog(extractor *Extractor) *InfoCatalog {
	return &InfoCatalog{
		extractor: extractor,
		info:      defaultInfo(),
	}
}

// Lookup 先精確比對關鍵字，再從文字擷取成分，回傳第一個有說明的成分；
// 皆無時回傳預設說明與 false
func (c *InfoCatalog) Lookup(text string) (string, common.SupplementInfo, bool) {
	if canonical, ok := c.extractor.Lexicon().Resolve(text); ok {
		if info, ok := c.info[canonical]; ok {
			return canonical, info, true
		}
	}
	for _, canonical := range c.extractor.Extract(text) {
		if info, ok := c.info[canonical]; ok {
			return canonical, info, true
		}
	}
	return "", fallbackInfo, false
}
