package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"supplement-advisor/internal/api/handlers"
	"supplement-advisor/internal/infrastructure/auth"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserID gin context 中已驗證使用者 id 的鍵
const ContextUserID = "user_id"

// TokenVerifier 驗證 bearer token 並回傳使用者
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.User, error)
}

// RequireAuth 需要有效的 Authorization: Bearer <token>
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Error: "Unauthorized - No token provided",
				Code:  common.ErrCodeUnauthorized,
			})
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				common.LogWarn("token 無效",
					zap.String("path", c.Request.URL.Path),
					zap.String("ip", c.ClientIP()),
				)
			}
			handlers.RespondError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// UserID 取出 RequireAuth 設定的使用者 id
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
