package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplement-advisor/internal/core/ai/cache"
	"supplement-advisor/internal/core/ai/provider/providertest"
	aiservice "supplement-advisor/internal/core/ai/service"
	"supplement-advisor/internal/core/ingredient"
	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder(ingredient.NewExtractor(ingredient.DefaultLexicon()), 0.3)
}

func TestBuild_InsufficientInput(t *testing.T) {
	b := newTestBuilder()

	tests := []struct {
		name  string
		names []string
	}{
		{"single product", []string{"센트룸 종합비타민"}},
		{"duplicate names", []string{"뉴트리코어 철분", " 뉴트리코어  철분 "}},
		{"blank names", []string{"철분", "  "}},
		{"one distinct ingredient", []string{"종근당 비타민D", "vitamin d 5000IU"}},
		{"nothing extracted", []string{"brand one", "brand two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.names)
			assert.True(t, errors.Is(err, common.ErrInsufficientInput), "got %v", err)
		})
	}
}

func TestBuild_Request(t *testing.T) {
	req, err := newTestBuilder().Build([]string{"센트룸 종합비타민", "뉴트리코어 철분"})
	require.NoError(t, err)

	require.Len(t, req.Products, 2)
	assert.Equal(t, []string{"종합비타민"}, req.Products[0].Ingredients)
	assert.Equal(t, []string{"철분"}, req.Products[1].Ingredients)
	assert.Equal(t, []string{"종합비타민", "철분"}, req.Ingredients)

	require.NotNil(t, req.AI)
	assert.True(t, req.AI.JSONMode)
	assert.Equal(t, 0.3, req.AI.Temperature)
	assert.Contains(t, req.AI.Prompt, "1. 센트룸 종합비타민")
	assert.Contains(t, req.AI.Prompt, "2. 뉴트리코어 철분")
	assert.Contains(t, req.AI.Prompt, `"overallSafety": "safe|caution|warning"`)
	assert.Contains(t, req.AI.System, "JSON")
}

func TestBuild_ProductWithoutLocalIngredientsIsKept(t *testing.T) {
	req, err := newTestBuilder().Build([]string{"칼슘 마그네슘", "unknown brand"})
	require.NoError(t, err)

	require.Len(t, req.Products, 2)
	assert.Empty(t, req.Products[1].Ingredients)
	assert.Contains(t, req.AI.Prompt, "2. unknown brand")
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `sorry, I cannot help`},
		{"missing overallSafety", `{"interactions": [], "generalAdvice": "ok"}`},
		{"unknown overallSafety", `{"interactions": [], "overallSafety": "unsafe"}`},
		{"missing interactions", `{"overallSafety": "safe"}`},
		{"null interactions", `{"interactions": null, "overallSafety": "safe"}`},
		{"bad severity", `{"interactions": [{"supplement": "a", "severity": "critical"}], "overallSafety": "warning"}`},
		{"missing severity", `{"interactions": [{"supplement": "a"}], "overallSafety": "warning"}`},
		{"missing supplement", `{"interactions": [{"severity": "low"}], "overallSafety": "caution"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.raw))
			assert.True(t, errors.Is(err, common.ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestNormalize_PreservesOrderAndDuplicates(t *testing.T) {
	raw := "```json\n" + `{
		"interactions": [
			{"supplement": "B", "severity": "low", "conflicts": ["A"]},
			{"supplement": "A", "severity": "HIGH"},
			{"supplement": "A", "severity": "high"}
		],
		"overallSafety": "Warning",
		"generalAdvice": "간격을 두고 복용하세요."
	}` + "\n```"

	report, err := Normalize([]byte(raw))
	require.NoError(t, err)

	require.Len(t, report.Interactions, 3)
	assert.Equal(t, "B", report.Interactions[0].Supplement)
	assert.Equal(t, common.SeverityHigh, report.Interactions[1].Severity)
	assert.Equal(t, report.Interactions[1], report.Interactions[2])
	assert.NotNil(t, report.Interactions[1].Conflicts)
	assert.NotNil(t, report.Interactions[1].ConflictIngredients)
	assert.Equal(t, common.SafetyWarning, report.OverallSafety)
	assert.Equal(t, common.SeverityHigh, HighestSeverity(report))
}

func TestNormalize_EmptyFindingsAreSafe(t *testing.T) {
	report, err := Normalize([]byte(`{"interactions": [], "overallSafety": "caution", "generalAdvice": ""}`))
	require.NoError(t, err)

	assert.Empty(t, report.Interactions)
	assert.Equal(t, common.SafetySafe, report.OverallSafety)
	assert.Equal(t, common.Severity(""), HighestSeverity(report))
}

func TestCheck_EndToEnd(t *testing.T) {
	stub := &providertest.Stub{Content: `{
		"interactions": [{
			"supplement": "뉴트리코어 철분",
			"extractedIngredients": ["철분"],
			"conflicts": ["센트룸 종합비타민"],
			"conflictIngredients": ["칼슘"],
			"severity": "medium",
			"warning": "종합비타민의 칼슘이 철분 흡수를 방해할 수 있습니다.",
			"recommendation": "2시간 간격을 두고 복용하세요."
		}],
		"overallSafety": "caution",
		"generalAdvice": "복용 시간을 분리하세요."
	}`}
	reasoner := aiservice.NewServiceWithProvider(config.OpenAIConfig{APIKey: "sk-xxxxxxxx"}, stub, nil)
	svc := NewService(newTestBuilder(), reasoner)

	report, err := svc.Check(context.Background(), []string{"센트룸 종합비타민", "뉴트리코어 철분"})
	require.NoError(t, err)

	require.Len(t, report.Interactions, 1)
	assert.Equal(t, common.SafetyCaution, report.OverallSafety)
	assert.Equal(t, common.SeverityMedium, report.Interactions[0].Severity)
	assert.Equal(t, 1, stub.Calls())
}

func TestCheck_InsufficientInputSkipsReasoning(t *testing.T) {
	stub := &providertest.Stub{Content: `{}`}
	reasoner := aiservice.NewServiceWithProvider(config.OpenAIConfig{APIKey: "sk-xxxxxxxx"}, stub, nil)
	svc := NewService(newTestBuilder(), reasoner)

	_, err := svc.Check(context.Background(), []string{"철분"})
	assert.True(t, common.IsValidationError(err))
	assert.Zero(t, stub.Calls())
}

func TestCheck_MalformedResponse(t *testing.T) {
	stub := &providertest.Stub{Content: `{"interactions": [], "overallSafety": "unsafe"}`}
	reasoner := aiservice.NewServiceWithProvider(config.OpenAIConfig{APIKey: "sk-xxxxxxxx"}, stub, nil)
	svc := NewService(newTestBuilder(), reasoner)

	_, err := svc.Check(context.Background(), []string{"칼슘", "철분"})
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestCheck_MalformedReplyIsNotCached(t *testing.T) {
	stub := &providertest.Stub{Content: `{"interactions": []}`}
	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour, CleanupInterval: time.Hour})
	defer cm.Close()

	reasoner := aiservice.NewServiceWithProvider(config.OpenAIConfig{APIKey: "sk-xxxxxxxx"}, stub, cm)
	svc := NewService(newTestBuilder(), reasoner)
	names := []string{"칼슘", "철분"}

	_, err := svc.Check(context.Background(), names)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse), "got %v", err)

	stub.Content = `{"interactions": [], "overallSafety": "safe", "generalAdvice": "함께 복용해도 됩니다."}`
	report, err := svc.Check(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, common.SafetySafe, report.OverallSafety)
	assert.Equal(t, 2, stub.Calls())

	// 通過驗證的回應才會被快取
	_, err = svc.Check(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.Calls())
}
