package proxy

import (
	"context"
	"encoding/json"
	"net/http"

	"supplement-advisor/internal/api/handlers"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShoppingRequest 쇼핑 검색；display 省略時為 10
type ShoppingRequest struct {
	Query   string `json:"query"`
	Display int    `json:"display"`
}

// FoodSafetyRequest 식품안전나라 제품 조회
type FoodSafetyRequest struct {
	ProductName string `json:"productName"`
}

// ProductSearcher 購物搜尋
type ProductSearcher interface {
	Search(ctx context.Context, query string, display int) (json.RawMessage, error)
}

// ProductRegistry 健康機能食品資料查詢
type ProductRegistry interface {
	Lookup(ctx context.Context, productName string) (json.RawMessage, error)
}

// Handler 外部 API 轉發
type Handler struct {
	shopping   ProductSearcher
	foodSafety ProductRegistry
}

// NewHandler 創建處理程序
func NewHandler(shopping ProductSearcher, foodSafety ProductRegistry) *Handler {
	return &Handler{shopping: shopping, foodSafety: foodSafety}
}

// HandleNaverShopping POST /naver-shopping，原樣回傳上游 JSON
func (h *Handler) HandleNaverShopping(c *gin.Context) {
	var req ShoppingRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	body, err := h.shopping.Search(c.Request.Context(), req.Query, req.Display)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogDebug("購物搜尋完成", zap.String("query", req.Query), zap.Int("bytes", len(body)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// HandleFoodSafety POST /food-safety，原樣回傳上游 JSON
func (h *Handler) HandleFoodSafety(c *gin.Context) {
	var req FoodSafetyRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	body, err := h.foodSafety.Lookup(c.Request.Context(), req.ProductName)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
