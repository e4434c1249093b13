package foodsafety

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	serviceName = "Food Safety"
	// serviceID 건강기능식품 품목제조 신고사항
	serviceID = "C003"
	pageSize  = 10
)

// Client 식품안전나라 OpenAPI 代理；金鑰是 URL 路徑的一部分
type Client struct {
	config config.FoodSafetyConfig
	client *resty.Client
}

// NewClient 創建客戶端
func NewClient(cfg config.FoodSafetyConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{config: cfg, client: client}
}

// Configured 是否已設定 API key
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// Lookup 以產品名稱查詢，原樣回傳上游 JSON
func (c *Client) Lookup(ctx context.Context, productName string) (json.RawMessage, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, common.NewValidationError("제품명을 입력해주세요.")
	}
	if !c.Configured() {
		return nil, common.NewConfigurationError(
			"Food Safety API key not configured",
			"FOOD_SAFETY_API_KEY 환경 변수가 설정되지 않았습니다.",
		)
	}

	path := fmt.Sprintf("/api/%s/%s/json/1/%d/PRDLST_NM=%s",
		url.PathEscape(strings.TrimSpace(c.config.APIKey)), serviceID, pageSize, url.PathEscape(productName))

	resp, err := c.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		if common.IsTimeout(ctx, err) {
			return nil, common.NewTimeoutError(serviceName, fmt.Errorf("%s", c.redact(err.Error())))
		}
		return nil, common.NewExternalServiceError(serviceName, 0, "", fmt.Errorf("%s", c.redact(err.Error())))
	}

	if !resp.IsSuccess() {
		common.LogWarn("식품안전나라 API 錯誤", zap.Int("status", resp.StatusCode()))
		return nil, common.NewExternalServiceError(serviceName, resp.StatusCode(), c.redact(resp.String()), nil)
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, common.NewMalformedResponseError("food safety response is not JSON", nil)
	}
	return json.RawMessage(body), nil
}

func (c *Client) redact(s string) string {
	return common.RedactSecrets(s, c.config.APIKey)
}
