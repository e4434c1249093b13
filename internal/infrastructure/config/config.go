package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"supplement-advisor/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	Naver       NaverConfig      `mapstructure:"naver"`
	FoodSafety  FoodSafetyConfig `mapstructure:"food_safety"`
	Supabase    SupabaseConfig   `mapstructure:"supabase"`
	KV          KVConfig         `mapstructure:"kv"`
	Lexicon     LexiconConfig    `mapstructure:"lexicon"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	PathPrefix     string        `mapstructure:"path_prefix"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

// OpenAIConfig 推理服務（OpenAI 相容 API）配置
type OpenAIConfig struct {
	APIKey                 string        `mapstructure:"api_key"`
	Model                  string        `mapstructure:"model"`
	BaseURL                string        `mapstructure:"base_url"`
	Timeout                time.Duration `mapstructure:"timeout"`
	MaxTokens              int           `mapstructure:"max_tokens"`
	InteractionTemperature float64       `mapstructure:"interaction_temperature"`
	RecommendTemperature   float64       `mapstructure:"recommend_temperature"`
}

// NaverConfig 네이버 쇼핑 검색 API 配置
type NaverConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// FoodSafetyConfig 식품안전나라 API 配置
type FoodSafetyConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SupabaseConfig 認證服務配置
type SupabaseConfig struct {
	URL            string        `mapstructure:"url"`
	ServiceRoleKey string        `mapstructure:"service_role_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// KVConfig 提醒資料的鍵值儲存
type KVConfig struct {
	Driver        string `mapstructure:"driver"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// LexiconConfig 額外關鍵字檔
type LexiconConfig struct {
	ExtraPath string `mapstructure:"extra_path"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 推理呼叫並行上限；Workers 為 0 時不限制
type QueueConfig struct {
	Workers    int `mapstructure:"workers"`
	MaxWaiting int `mapstructure:"max_waiting"`
}

// RateLimitConfig 速率限制配置（每個 IP 在 Window 內最多 Requests 次）
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

const (
	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"
)

// LoadConfig 載入設定；.env 不存在時只讀環境變數
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"server.port":               "PORT",
		"server.allow_origins":      "ALLOW_ORIGINS",
		"openai.api_key":            "OPENAI_API_KEY",
		"openai.model":              "OPENAI_MODEL",
		"openai.base_url":           "OPENAI_BASE_URL",
		"naver.client_id":           "NAVER_CLIENT_ID",
		"naver.client_secret":       "NAVER_CLIENT_SECRET",
		"food_safety.api_key":       "FOOD_SAFETY_API_KEY",
		"supabase.url":              "SUPABASE_URL",
		"supabase.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
		"kv.driver":                 "KV_DRIVER",
		"kv.redis_addr":             "REDIS_ADDR",
		"kv.redis_password":         "REDIS_PASSWORD",
		"kv.redis_db":               "REDIS_DB",
		"lexicon.extra_path":        "LEXICON_EXTRA_PATH",
		"cache.enabled":             "CACHE_ENABLED",
		"queue.workers":             "QUEUE_WORKERS",
		"queue.max_waiting":         "QUEUE_MAX_WAITING",
		"rate_limit.enabled":        "RATE_LIMIT_ENABLED",
		"rate_limit.requests":       "RATE_LIMIT_REQUESTS",
		"rate_limit.window":         "RATE_LIMIT_WINDOW",
		"dedup_window":              "DEDUP_WINDOW",
		"log_level":                 "LOG_LEVEL",
		"log_dir":                   "LOG_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration", "openai_api_key:", common.MaskAPIKey(v.GetString("openai.api_key")), "openai_model:", v.GetString("openai.model"), "kv_driver:", v.GetString("kv.driver"))

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "supplement-advisor")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.max_body_size", 1<<20) // 1MB
	v.SetDefault("server.path_prefix", "/api/v1")
	v.SetDefault("server.allow_origins", []string{"*"})

	// 推理服務設定
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout", "30s")
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("openai.interaction_temperature", 0.3)
	v.SetDefault("openai.recommend_temperature", 0.7)

	// 外部 API
	v.SetDefault("naver.base_url", "https://openapi.naver.com")
	v.SetDefault("naver.timeout", "10s")
	v.SetDefault("food_safety.base_url", "http://openapi.foodsafetykorea.go.kr")
	v.SetDefault("food_safety.timeout", "10s")
	v.SetDefault("supabase.timeout", "10s")

	// 鍵值儲存
	v.SetDefault("kv.driver", KVDriverMemory)
	v.SetDefault("kv.redis_addr", "localhost:6379")
	v.SetDefault("kv.redis_db", 0)
	v.SetDefault("kv.key_prefix", "")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 推理隊列
	v.SetDefault("queue.workers", 8)
	v.SetDefault("queue.max_waiting", 32)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定；缺少外部憑證不算錯誤，呼叫時才回報
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if !strings.HasPrefix(config.Server.PathPrefix, "/") {
		return fmt.Errorf("server path prefix must start with '/'")
	}
	if config.Server.MaxBodySize <= 0 {
		return fmt.Errorf("invalid server max body size")
	}
	if config.OpenAI.Timeout <= 0 {
		return fmt.Errorf("invalid openai timeout")
	}

	switch config.KV.Driver {
	case KVDriverRedis:
		if config.KV.RedisAddr == "" {
			return fmt.Errorf("redis address is required for kv driver %q", KVDriverRedis)
		}
	case KVDriverMemory:
	default:
		return fmt.Errorf("unknown kv driver %q", config.KV.Driver)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Queue.Workers < 0 || config.Queue.MaxWaiting < 0 {
		return fmt.Errorf("invalid queue settings")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
	}

	return nil
}
