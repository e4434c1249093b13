package provider

import (
	"context"
	"time"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到推理服務的請求
type Request struct {
	// Purpose 僅用於日誌（recommend、interaction…）
	Purpose     string  `json:"-"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	// JSONMode 要求服務只回傳單一 JSON 物件
	JSONMode bool `json:"json_mode"`
	// Validate 檢查回應內容；未通過的回應不寫入快取
	Validate func(content string) error `json:"-"`
}

// Messages 轉換為 system + user 對話
func (r *Request) Messages() []Message {
	messages := make([]Message, 0, 2)
	if r.System != "" {
		messages = append(messages, Message{Role: "system", Content: r.System})
	}
	return append(messages, Message{Role: "user", Content: r.Prompt})
}

// Response 表示從推理服務收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Provider 定義推理服務介面
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}

// Config 定義推理服務配置
type Config struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
	BaseURL   string
}
