package kv

import (
	"context"
	"fmt"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 鍵值儲存；值以 JSON 序列化。
// 不保證讀-改-寫的原子性，同一鍵的併發寫入以最後一次為準。
type Store interface {
	// Get 讀取並解析到 dest；鍵不存在時回傳 false 且不修改 dest
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定選擇 redis 或 memory
func New(ctx context.Context, cfg config.KVConfig) (Store, error) {
	switch cfg.Driver {
	case config.KVDriverRedis:
		store, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		common.LogInfo("KV 儲存已連線", zap.String("driver", cfg.Driver), zap.String("addr", cfg.RedisAddr))
		return store, nil
	case config.KVDriverMemory, "":
		common.LogWarn("使用記憶體 KV 儲存，重啟後資料會遺失")
		return NewMemoryStore(cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown kv driver %q", cfg.Driver)
	}
}
