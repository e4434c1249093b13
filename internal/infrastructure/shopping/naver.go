package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	serviceName    = "Naver"
	defaultDisplay = 10
	maxDisplay     = 100
)

const upstreamHint = "네이버 개발자 센터(https://developers.naver.com/apps)에서 애플리케이션 설정을 확인하세요. 1) Client ID와 Secret이 올바른지 2) 쇼핑 API가 활성화되어 있는지 확인해주세요."

// NaverClient 네이버 쇼핑 검색 API 代理
type NaverClient struct {
	config config.NaverConfig
	client *resty.Client
}

// NewNaverClient 創建客戶端
func NewNaverClient(cfg config.NaverConfig) *NaverClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("X-Naver-Client-Id", strings.TrimSpace(cfg.ClientID)).
		SetHeader("X-Naver-Client-Secret", strings.TrimSpace(cfg.ClientSecret))

	return &NaverClient{config: cfg, client: client}
}

// Configured 是否已設定 client id 與 secret
func (c *NaverClient) Configured() bool {
	return strings.TrimSpace(c.config.ClientID) != "" && strings.TrimSpace(c.config.ClientSecret) != ""
}

// ClampDisplay 0 以下用預設值，超過上限截斷
func ClampDisplay(display int) int {
	switch {
	case display <= 0:
		return defaultDisplay
	case display > maxDisplay:
		return maxDisplay
	}
	return display
}

// Search 以相似度排序搜尋商品，原樣回傳上游 JSON
func (c *NaverClient) Search(ctx context.Context, query string, display int) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("검색어를 입력해주세요.")
	}
	if !c.Configured() {
		return nil, common.NewConfigurationError(
			"Naver API credentials not configured",
			"환경 변수 NAVER_CLIENT_ID와 NAVER_CLIENT_SECRET이 설정되지 않았습니다.",
		)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":   query,
			"display": strconv.Itoa(ClampDisplay(display)),
			"sort":    "sim",
		}).
		Get("/v1/search/shop.json")
	if err != nil {
		if common.IsTimeout(ctx, err) {
			return nil, common.NewTimeoutError(serviceName, err)
		}
		return nil, common.NewExternalServiceError(serviceName, 0, "", fmt.Errorf("%s", c.redact(err.Error())))
	}

	if !resp.IsSuccess() {
		details := c.redact(resp.String())
		common.LogWarn("네이버 쇼핑 API 錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("details", details),
		)
		return nil, common.WithHint(common.NewExternalServiceError(serviceName, resp.StatusCode(), details, nil), upstreamHint)
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, common.NewMalformedResponseError("naver response is not JSON", nil)
	}

	common.LogDebug("네이버 쇼핑 검색 완료", zap.String("query", query))
	return json.RawMessage(body), nil
}

func (c *NaverClient) redact(s string) string {
	return common.RedactSecrets(s, c.config.ClientID, c.config.ClientSecret)
}
