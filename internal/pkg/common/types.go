package common

// Severity 交互作用嚴重度
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Valid 是否為合法嚴重度
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank 嚴重度排序值，high 最大
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Safety 整體安全等級
type Safety string

const (
	SafetySafe    Safety = "safe"
	SafetyCaution Safety = "caution"
	SafetyWarning Safety = "warning"
)

// Valid 是否為合法安全等級
func (s Safety) Valid() bool {
	switch s {
	case SafetySafe, SafetyCaution, SafetyWarning:
		return true
	}
	return false
}

// Product 使用者輸入的產品與本地擷取到的成分
type Product struct {
	Name        string   `json:"productName"`
	Ingredients []string `json:"ingredients"`
}

// InteractionFinding 單一衝突，只由外部推理服務產生
type InteractionFinding struct {
	Supplement           string   `json:"supplement"`
	ExtractedIngredients []string `json:"extractedIngredients"`
	Conflicts            []string `json:"conflicts"`
	ConflictIngredients  []string `json:"conflictIngredients"`
	Severity             Severity `json:"severity"`
	Warning              string   `json:"warning"`
	Recommendation       string   `json:"recommendation"`
}

// InteractionReport 交互作用分析結果
type InteractionReport struct {
	Interactions  []InteractionFinding `json:"interactions"`
	OverallSafety Safety               `json:"overallSafety"`
	GeneralAdvice string               `json:"generalAdvice"`
}

// RecommendedProduct 推薦的具體產品
type RecommendedProduct struct {
	ProductName    string `json:"productName"`
	Brand          string `json:"brand"`
	Features       string `json:"features"`
	EstimatedPrice string `json:"estimatedPrice"`
}

// SupplementRecommendation 推薦的營養補充品
type SupplementRecommendation struct {
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Benefits            []string             `json:"benefits"`
	Dosage              string               `json:"dosage"`
	RecommendedProducts []RecommendedProduct `json:"recommendedProducts"`
}

// RecommendationReport 症狀推薦結果
type RecommendationReport struct {
	Supplements   []SupplementRecommendation `json:"supplements"`
	GeneralAdvice string                     `json:"generalAdvice"`
	Precautions   []string                   `json:"precautions"`
}

// Reminder 服用提醒，僅屬於單一使用者
type Reminder struct {
	ID         string   `json:"id"`
	Supplement string   `json:"supplement"`
	Time       string   `json:"time"`
	Days       []string `json:"days"`
	CreatedAt  string   `json:"createdAt"`
}

// SupplementInfo 營養素基本資訊
type SupplementInfo struct {
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
	Dosage      string   `json:"dosage"`
}
