package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const serviceName = "Supabase"

// User 認證服務的使用者
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
}

// SignupInput 註冊參數
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SupabaseClient Supabase Auth（GoTrue）REST 客戶端
type SupabaseClient struct {
	config config.SupabaseConfig
	client *resty.Client
}

// NewSupabaseClient 創建客戶端；憑證缺少時於呼叫時回報
func NewSupabaseClient(cfg config.SupabaseConfig) *SupabaseClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", strings.TrimSpace(cfg.ServiceRoleKey))

	return &SupabaseClient{config: cfg, client: client}
}

// Configured 是否已設定 URL 與 service role key
func (c *SupabaseClient) Configured() bool {
	return strings.TrimSpace(c.config.URL) != "" && strings.TrimSpace(c.config.ServiceRoleKey) != ""
}

func (c *SupabaseClient) checkConfigured() error {
	if !c.Configured() {
		return common.NewConfigurationError(
			"Supabase credentials not configured",
			"SUPABASE_URL 또는 SUPABASE_SERVICE_ROLE_KEY 환경 변수가 설정되지 않았습니다.",
		)
	}
	return nil
}

// VerifyToken 以使用者的 access token 取得身分；無效時回傳 Unauthorized
func (c *SupabaseClient) VerifyToken(ctx context.Context, token string) (*User, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	var user User
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	if !resp.IsSuccess() || user.ID == "" {
		common.LogDebug("token 驗證失敗", zap.Int("status", resp.StatusCode()))
		return nil, common.NewUnauthorizedError("")
	}
	return &user, nil
}

// EmailExists 透過 admin API 檢查信箱是否已註冊
func (c *SupabaseClient) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := c.checkConfigured(); err != nil {
		return false, err
	}

	var result struct {
		Users []User `json:"users"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.config.ServiceRoleKey).
		SetQueryParams(map[string]string{"page": "1", "per_page": "1000"}).
		SetResult(&result).
		Get("/auth/v1/admin/users")
	if err != nil {
		return false, c.transportError(ctx, err)
	}
	if !resp.IsSuccess() {
		return false, common.NewExternalServiceError(serviceName, resp.StatusCode(), c.redact(resp.String()), nil)
	}

	for _, u := range result.Users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// CreateUser 建立已確認信箱的使用者
func (c *SupabaseClient) CreateUser(ctx context.Context, in SignupInput) (*User, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"email":         in.Email,
		"password":      in.Password,
		"user_metadata": map[string]string{"name": in.Name},
		// 沒有郵件伺服器，直接標記為已確認
		"email_confirm": true,
	}

	var user User
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.config.ServiceRoleKey).
		SetBody(body).
		SetResult(&user).
		Post("/auth/v1/admin/users")
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	if !resp.IsSuccess() {
		message := upstreamMessage(resp.Body())
		common.LogWarn("建立使用者失敗",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message),
		)
		e := common.NewError(common.ErrCodeInvalidRequest, LocalizeSignupError(message), http.StatusBadRequest, nil)
		e.Details = c.redact(message)
		return nil, e
	}
	return &user, nil
}

// Signup 檢查重複信箱後建立使用者；檢查失敗時仍繼續建立
func (c *SupabaseClient) Signup(ctx context.Context, in SignupInput) (*User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" {
		return nil, common.NewValidationError("이메일과 비밀번호를 입력해주세요.")
	}

	exists, err := c.EmailExists(ctx, in.Email)
	switch {
	case errors.Is(err, common.ErrConfiguration):
		return nil, err
	case err != nil:
		common.LogWarn("檢查既有使用者失敗，繼續建立", zap.Error(err))
	case exists:
		return nil, common.NewValidationError(msgEmailTaken)
	}

	user, err := c.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}

	common.LogInfo("使用者已建立", zap.String("user_id", user.ID))
	return user, nil
}

const (
	msgEmailTaken    = "이미 사용 중인 이메일입니다."
	msgPasswordShort = "비밀번호는 최소 6자 이상이어야 합니다."
	msgInvalidEmail  = "유효한 이메일 주소를 입력해주세요."
	msgSignupFailed  = "회원가입 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// LocalizeSignupError 將上游錯誤訊息轉為使用者看得懂的訊息
func LocalizeSignupError(message string) string {
	switch {
	case strings.Contains(message, "already registered"), strings.Contains(message, "already been registered"), strings.Contains(message, "already exists"):
		return msgEmailTaken
	case strings.Contains(message, "password"), strings.Contains(message, "Password"):
		return msgPasswordShort
	case strings.Contains(message, "email"), strings.Contains(message, "Email"):
		return msgInvalidEmail
	case strings.Contains(message, "Database"), strings.Contains(message, "destination"):
		return msgSignupFailed
	case message == "":
		return msgSignupFailed
	}
	return message
}

// upstreamMessage GoTrue 的錯誤欄位隨版本不同
func upstreamMessage(body []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, m := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}

func (c *SupabaseClient) transportError(ctx context.Context, err error) error {
	if common.IsTimeout(ctx, err) {
		return common.NewTimeoutError(serviceName, err)
	}
	return common.NewExternalServiceError(serviceName, 0, "", fmt.Errorf("%s", c.redact(err.Error())))
}

func (c *SupabaseClient) redact(s string) string {
	return common.RedactSecrets(s, c.config.ServiceRoleKey)
}
