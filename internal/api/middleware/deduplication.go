package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultDedupWindow = time.Second
	sweepThreshold     = 1024
)

// Deduplicator 拒絕在時間窗內重複送出的相同 POST 請求
type Deduplicator struct {
	window   time.Duration
	mu       sync.Mutex
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Middleware 請求去重中間件；指紋包含路徑、Authorization 與請求體。
// 回應狀態為 4xx/5xx 時移除指紋，呼叫端可以立即重送。
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
					Error: "요청 본문이 너무 큽니다.",
					Code:  common.ErrCodeInvalidRequest,
				})
				return
			}
			common.LogDebug("去重時讀取請求體失敗", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrValidation.Response())
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		key := fingerprint(c, body)
		seenAt, ok := d.allow(key)
		if !ok {
			common.LogInfo("重複請求已拒絕",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Error: "Request too frequent",
				Code:  common.ErrCodeTooManyRequests,
			})
			return
		}

		c.Next()

		// 失敗或逾時的請求允許立即重送
		if c.Writer.Status() >= http.StatusBadRequest || c.Request.Context().Err() != nil {
			d.forget(key, seenAt)
		}
	}
}

func (d *Deduplicator) allow(key string) (time.Time, bool) {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[key]; ok && now.Sub(last) <= d.window {
		return last, false
	}
	d.requests[key] = now

	if len(d.requests) < sweepThreshold {
		return now, true
	}
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
	return now, true
}

// forget 只移除自己寫入的紀錄
func (d *Deduplicator) forget(key string, seenAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.requests[key]; ok && t.Equal(seenAt) {
		delete(d.requests, key)
	}
}

func fingerprint(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method + ":" + c.Request.URL.Path + "\n"))
	h.Write([]byte(c.ClientIP() + "\n"))
	h.Write([]byte(c.GetHeader("Authorization") + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
