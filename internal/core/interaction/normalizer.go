package interaction

import (
	"fmt"
	"strings"

	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

type rawReport struct {
	Interactions  *[]rawFinding `json:"interactions"`
	OverallSafety *string       `json:"overallSafety"`
	GeneralAdvice string        `json:"generalAdvice"`
}

type rawFinding struct {
	Supplement           string   `json:"supplement"`
	ExtractedIngredients []string `json:"extractedIngredients"`
	Conflicts            []string `json:"conflicts"`
	ConflictIngredients  []string `json:"conflictIngredients"`
	Severity             string   `json:"severity"`
	Warning              string   `json:"warning"`
	Recommendation       string   `json:"recommendation"`
}

// Normalize 驗證推理服務的回應並轉換為 InteractionReport。
// findings 的順序與重複項照原樣保留。
func Normalize(raw []byte) (*common.InteractionReport, error) {
	content := common.ExtractJSONObject(string(raw))

	var parsed rawReport
	if err := common.ParseJSON(content, &parsed); err != nil {
		return nil, common.NewMalformedResponseError("response is not a JSON object", err)
	}

	if parsed.Interactions == nil {
		return nil, common.NewMalformedResponseError("missing interactions", nil)
	}
	if parsed.OverallSafety == nil {
		return nil, common.NewMalformedResponseError("missing overallSafety", nil)
	}

	safety := common.Safety(strings.ToLower(strings.TrimSpace(*parsed.OverallSafety)))
	if !safety.Valid() {
		return nil, common.NewMalformedResponseError(fmt.Sprintf("invalid overallSafety %q", *parsed.OverallSafety), nil)
	}

	report := &common.InteractionReport{
		Interactions:  make([]common.InteractionFinding, 0, len(*parsed.Interactions)),
		OverallSafety: safety,
		GeneralAdvice: parsed.GeneralAdvice,
	}

	for i, f := range *parsed.Interactions {
		if strings.TrimSpace(f.Supplement) == "" {
			return nil, common.NewMalformedResponseError(fmt.Sprintf("interactions[%d]: missing supplement", i), nil)
		}
		severity := common.Severity(strings.ToLower(strings.TrimSpace(f.Severity)))
		if !severity.Valid() {
			return nil, common.NewMalformedResponseError(fmt.Sprintf("interactions[%d]: invalid severity %q", i, f.Severity), nil)
		}

		report.Interactions = append(report.Interactions, common.InteractionFinding{
			Supplement:           f.Supplement,
			ExtractedIngredients: orEmpty(f.ExtractedIngredients),
			Conflicts:            orEmpty(f.Conflicts),
			ConflictIngredients:  orEmpty(f.ConflictIngredients),
			Severity:             severity,
			Warning:              f.Warning,
			Recommendation:       f.Recommendation,
		})
	}

	// 沒有任何衝突時整體一定是 safe
	if len(report.Interactions) == 0 && report.OverallSafety != common.SafetySafe {
		common.LogWarn("無衝突但整體安全等級非 safe，已修正",
			zap.String("overall_safety", string(report.OverallSafety)),
		)
		report.OverallSafety = common.SafetySafe
	}

	return report, nil
}

// HighestSeverity 回傳最嚴重的等級；沒有 findings 時回傳空字串
func HighestSeverity(report *common.InteractionReport) common.Severity {
	var highest common.Severity
	for _, f := range report.Interactions {
		if f.Severity.Rank() > highest.Rank() {
			highest = f.Severity
		}
	}
	return highest
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
