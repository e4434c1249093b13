package queue

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Status 隊列狀態
type Status struct {
	InFlight       int   `json:"in_flight"`
	Waiting        int   `json:"waiting"`
	ProcessedCount int64 `json:"processed_count"`
	MaxWaiting     int   `json:"max_waiting"`
	Workers        int   `json:"workers"`
}

// Limiter 限制同時進行的推理呼叫；排隊超過上限時直接拒絕
type Limiter struct {
	slots      chan struct{}
	maxWaiting int
	waiting    int64
	processed  int64
}

// NewLimiter Workers <= 0 時回傳 nil（不限制）
func NewLimiter(cfg config.QueueConfig) *Limiter {
	if cfg.Workers <= 0 {
		return nil
	}
	return &Limiter{
		slots:      make(chan struct{}, cfg.Workers),
		maxWaiting: cfg.MaxWaiting,
	}
}

// Acquire 取得執行名額；回傳的 release 必須呼叫一次
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if l == nil {
		return func() {}, nil
	}

	// 有空位時不必排隊
	select {
	case l.slots <- struct{}{}:
		return l.release, nil
	default:
	}

	if n := atomic.AddInt64(&l.waiting, 1); int(n) > l.maxWaiting {
		atomic.AddInt64(&l.waiting, -1)
		common.LogWarn("推理隊列已滿",
			zap.Int("workers", cap(l.slots)),
			zap.Int("max_waiting", l.maxWaiting),
		)
		return nil, common.NewError(common.ErrCodeTooManyRequests, "요청이 많아 처리할 수 없습니다. 잠시 후 다시 시도해주세요.", http.StatusTooManyRequests, nil)
	}
	defer atomic.AddInt64(&l.waiting, -1)

	select {
	case l.slots <- struct{}{}:
		return l.release, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, common.NewTimeoutError("OpenAI", ctx.Err())
		}
		return nil, ctx.Err()
	}
}

func (l *Limiter) release() {
	<-l.slots
	atomic.AddInt64(&l.processed, 1)
}

// Status 目前狀態；nil 時回傳 nil
func (l *Limiter) Status() *Status {
	if l == nil {
		return nil
	}
	return &Status{
		InFlight:       len(l.slots),
		Waiting:        int(atomic.LoadInt64(&l.waiting)),
		ProcessedCount: atomic.LoadInt64(&l.processed),
		MaxWaiting:     l.maxWaiting,
		Workers:        cap(l.slots),
	}
}
