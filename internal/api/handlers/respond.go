package handlers

import (
	"errors"
	"net/http"

	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 JSON 響應；非 CustomError 一律回 500 且不帶內部細節
func RespondError(c *gin.Context, err error) {
	ce, ok := common.AsCustomError(err)
	if !ok {
		common.LogError("未預期的錯誤",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}

	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", append(fields, zap.Error(err))...)
	} else {
		common.LogWarn("請求被拒絕", append(fields, zap.String("message", ce.Message))...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ce.Response())
}

// BindJSON 解析請求體；格式錯誤轉為驗證錯誤，超過大小限制回 413
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, common.NewError(common.ErrCodeInvalidRequest, "요청 본문이 너무 큽니다.", http.StatusRequestEntityTooLarge, err))
			return false
		}
		RespondError(c, common.NewValidationError("요청 형식이 올바르지 않습니다."))
		return false
	}
	return true
}
