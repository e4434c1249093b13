package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error   string `json:"error"`             // 錯誤信息（使用者語系）
	Code    string `json:"code"`              // 錯誤代碼
	Hint    string `json:"hint,omitempty"`    // 給維運人員的提示
	Details string `json:"details,omitempty"` // 上游錯誤內容（已遮罩）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Hint    string // 提示
	Details string // 詳細信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrUnauthorized) 成立
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Response 轉換為 API 錯誤響應
func (e *CustomError) Response() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Hint:    e.Hint,
		Details: e.Details,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest    = "INVALID_REQUEST"    // 400
	ErrCodeInsufficientInput = "INSUFFICIENT_INPUT" // 400
	ErrCodeUnauthorized      = "UNAUTHORIZED"       // 401
	ErrCodeNotFound          = "NOT_FOUND"          // 404
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError     = "INTERNAL_ERROR"      // 500
	ErrCodeConfiguration     = "CONFIGURATION_ERROR" // 500
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"  // 500
	ErrCodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	ErrCodeGatewayTimeout    = "GATEWAY_TIMEOUT" // 504
)

// 預定義錯誤，用於 errors.Is 比對
var (
	ErrValidation        = NewError(ErrCodeInvalidRequest, "잘못된 요청입니다.", http.StatusBadRequest, nil)
	ErrInsufficientInput = NewError(ErrCodeInsufficientInput, "분석할 정보가 부족합니다.", http.StatusBadRequest, nil)
	ErrUnauthorized      = NewError(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized, nil)
	ErrNotFound          = NewError(ErrCodeNotFound, "찾을 수 없습니다.", http.StatusNotFound, nil)
	ErrTooManyRequests   = NewError(ErrCodeTooManyRequests, "요청이 너무 많습니다.", http.StatusTooManyRequests, nil)

	ErrInternalError     = NewError(ErrCodeInternalError, "서버 내부 오류가 발생했습니다.", http.StatusInternalServerError, nil)
	ErrConfiguration     = NewError(ErrCodeConfiguration, "서비스 설정 오류", http.StatusInternalServerError, nil)
	ErrMalformedResponse = NewError(ErrCodeMalformedResponse, "외부 서비스 응답 형식이 올바르지 않습니다.", http.StatusInternalServerError, nil)
	ErrExternalService   = NewError(ErrCodeExternalService, "외부 서비스 오류", http.StatusBadGateway, nil)
	ErrTimeout           = NewError(ErrCodeGatewayTimeout, "외부 서비스 응답 시간이 초과되었습니다.", http.StatusGatewayTimeout, nil)
)

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return NewError(ErrCodeInvalidRequest, message, http.StatusBadRequest, nil)
}

// IsValidationError 檢查是否為驗證錯誤（含資料不足）
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInsufficientInput)
}

// NewInsufficientInputError 資料不足，無法進行交叉比對
func NewInsufficientInputError(message string) error {
	return NewError(ErrCodeInsufficientInput, message, http.StatusBadRequest, nil)
}

// NewUnauthorizedError 未授權；不附帶任何細節
func NewUnauthorizedError(message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return NewError(ErrCodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewNotFoundError 僅供內部使用
func NewNotFoundError(message string) error {
	return NewError(ErrCodeNotFound, message, http.StatusNotFound, nil)
}

// NewConfigurationError 缺少外部依賴的憑證
func NewConfigurationError(message, hint string) error {
	e := NewError(ErrCodeConfiguration, message, http.StatusInternalServerError, nil)
	e.Hint = hint
	return e
}

// NewExternalServiceError 下游服務回傳非成功狀態；status 沿用上游狀態碼
func NewExternalServiceError(service string, status int, details string, err error) error {
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	e := NewError(ErrCodeExternalService, fmt.Sprintf("%s API error: %d", service, status), status, err)
	e.Details = details
	return e
}

// NewTimeoutError 下游服務逾時
func NewTimeoutError(service string, err error) error {
	return NewError(ErrCodeGatewayTimeout, fmt.Sprintf("%s 응답 시간이 초과되었습니다.", service), http.StatusGatewayTimeout, err)
}

// NewMalformedResponseError 下游回應成功但內容不符 schema
func NewMalformedResponseError(reason string, err error) error {
	e := NewError(ErrCodeMalformedResponse, "외부 서비스 응답 형식이 올바르지 않습니다.", http.StatusInternalServerError, err)
	e.Details = reason
	return e
}

// WithHint 為 CustomError 附加提示；其他錯誤原樣回傳
func WithHint(err error, hint string) error {
	if ce, ok := AsCustomError(err); ok {
		ce.Hint = hint
	}
	return err
}
