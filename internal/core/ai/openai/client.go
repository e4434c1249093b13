package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"supplement-advisor/internal/core/ai/provider"
	"supplement-advisor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const serviceName = "OpenAI"

// Client OpenAI 相容 chat completions 客戶端
type Client struct {
	config provider.Config
	client *resty.Client
}

type chatRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient 創建客戶端；APIKey 可為空，由上層在呼叫前檢查
func NewClient(cfg provider.Config) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", strings.TrimSpace(cfg.APIKey)))

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 發送一次 chat completion，不重試
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.config.Model,
		Messages:    req.Messages(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.config.MaxTokens
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	common.LogDebug("發送推理請求",
		zap.String("purpose", req.Purpose),
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		if common.IsTimeout(ctx, err) {
			return nil, common.NewTimeoutError(serviceName, err)
		}
		return nil, common.NewExternalServiceError(serviceName, 0, "", errors.New(c.redact(err.Error())))
	}

	if !resp.IsSuccess() {
		details := c.redact(resp.String())
		common.LogWarn("推理服務回傳錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("details", details),
		)
		return nil, common.NewExternalServiceError(serviceName, resp.StatusCode(), details, nil)
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.NewMalformedResponseError("invalid chat completion body", err)
	}
	if len(result.Choices) == 0 {
		return nil, common.NewMalformedResponseError("no choices in response", nil)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return nil, common.NewMalformedResponseError("empty message content", nil)
	}

	out := &provider.Response{Content: content}
	out.Usage.PromptTokens = result.Usage.PromptTokens
	out.Usage.CompletionTokens = result.Usage.CompletionTokens
	out.Usage.TotalTokens = result.Usage.TotalTokens
	return out, nil
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Close resty 無需釋放資源
func (c *Client) Close() error {
	return nil
}

func (c *Client) redact(s string) string {
	return common.RedactSecrets(s, c.config.APIKey)
}
