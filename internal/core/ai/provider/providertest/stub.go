// Package providertest 提供測試用的推理服務替身
package providertest

import (
	"context"
	"sync"
	"time"

	"supplement-advisor/internal/core/ai/provider"
)

// Stub 回傳固定內容並記錄收到的請求
type Stub struct {
	mu       sync.Mutex
	Content  string
	Err      error
	Model    string
	Timeout  time.Duration
	Requests []*provider.Request
}

// Generate 記錄請求後回傳 Content 或 Err
func (s *Stub) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return &provider.Response{Content: s.Content}, nil
}

// Calls 已收到的請求數
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// LastRequest 最後一次請求
func (s *Stub) LastRequest() *provider.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return nil
	}
	return s.Requests[len(s.Requests)-1]
}

func (s *Stub) GetModel() string {
	if s.Model == "" {
		return "stub"
	}
	return s.Model
}

func (s *Stub) GetTimeout() time.Duration { return s.Timeout }

func (s *Stub) Close() error { return nil }
