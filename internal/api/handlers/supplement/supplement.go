package supplement

import (
	"context"
	"net/http"
	"strings"

	"supplement-advisor/internal/api/handlers"
	"supplement-advisor/internal/core/ingredient"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendRequest 依症狀推薦營養補充品
type RecommendRequest struct {
	Symptom string `json:"symptom"`
}

// ExtractRequest 從產品名稱擷取成分
type ExtractRequest struct {
	ProductName string `json:"productName"`
}

// ExtractResponse 擷取結果；找不到成分時 ingredients 為空陣列
type ExtractResponse struct {
	ProductName string   `json:"productName"`
	Ingredients []string `json:"ingredients"`
	Message     string   `json:"message"`
}

// InteractionRequest 至少兩個產品名稱
type InteractionRequest struct {
	Supplements []string `json:"supplements"`
}

// InfoRequest 查詢營養素說明
type InfoRequest struct {
	Supplement string `json:"supplement"`
}

// InfoResponse 營養素說明
type InfoResponse struct {
	Supplement string                `json:"supplement"`
	Info       common.SupplementInfo `json:"info"`
}

// Checker 交互作用分析
type Checker interface {
	Check(ctx context.Context, names []string) (*common.InteractionReport, error)
}

// Recommender 症狀推薦
type Recommender interface {
	Recommend(ctx context.Context, symptom string) (*common.RecommendationReport, error)
}

// Handler 營養補充品相關 API
type Handler struct {
	extractor   *ingredient.Extractor
	catalog     *ingredient.InfoCatalog
	checker     Checker
	recommender Recommender
}

// NewHandler 創建處理程序
func NewHandler(extractor *ingredient.Extractor, catalog *ingredient.InfoCatalog, checker Checker, recommender Recommender) *Handler {
	return &Handler{
		extractor:   extractor,
		catalog:     catalog,
		checker:     checker,
		recommender: recommender,
	}
}

// HandleRecommend POST /recommend
func (h *Handler) HandleRecommend(c *gin.Context) {
	var req RecommendRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	common.LogInfo("開始處理推薦請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("symptom_length", len([]rune(req.Symptom))),
	)

	report, err := h.recommender.Recommend(c.Request.Context(), req.Symptom)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// HandleExtractIngredients POST /extract-ingredients，一律回 200
func (h *Handler) HandleExtractIngredients(c *gin.Context) {
	var req ExtractRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ingredients := h.extractor.Extract(req.ProductName)
	common.LogDebug("成分擷取",
		zap.String("product_name", req.ProductName),
		zap.Strings("ingredients", ingredients),
	)

	c.JSON(http.StatusOK, ExtractResponse{
		ProductName: req.ProductName,
		Ingredients: ingredients,
		Message:     ingredient.ExtractMessage(ingredients),
	})
}

// HandleCheckInteractions POST /check-interactions
func (h *Handler) HandleCheckInteractions(c *gin.Context) {
	var req InteractionRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	common.LogInfo("開始處理交互作用分析",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("products", len(req.Supplements)),
	)

	report, err := h.checker.Check(c.Request.Context(), req.Supplements)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// HandleSupplementInfo POST /supplement-info；查無資料時回預設說明
func (h *Handler) HandleSupplementInfo(c *gin.Context) {
	var req InfoRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Supplement) == "" {
		handlers.RespondError(c, common.NewValidationError("영양제 이름을 입력해주세요."))
		return
	}

	_, info, found := h.catalog.Lookup(req.Supplement)
	if !found {
		common.LogDebug("查無營養素說明", zap.String("supplement", req.Supplement))
	}

	c.JSON(http.StatusOK, InfoResponse{Supplement: req.Supplement, Info: info})
}
