package account

import (
	"context"
	"net/http"

	"supplement-advisor/internal/api/handlers"
	"supplement-advisor/internal/infrastructure/auth"

	"github.com/gin-gonic/gin"
)

// SignupRequest 註冊參數
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignupResponse 註冊成功
type SignupResponse struct {
	Success bool       `json:"success"`
	User    *auth.User `json:"user"`
}

// Registrar 建立使用者帳號
type Registrar interface {
	Signup(ctx context.Context, in auth.SignupInput) (*auth.User, error)
}

// Handler 帳號 API
type Handler struct {
	registrar Registrar
}

// NewHandler 創建處理程序
func NewHandler(registrar Registrar) *Handler {
	return &Handler{registrar: registrar}
}

// HandleSignup POST /signup
func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	user, err := h.registrar.Signup(c.Request.Context(), auth.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SignupResponse{Success: true, User: user})
}
