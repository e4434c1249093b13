package reminder

import (
	"net/http"
	"time"

	"supplement-advisor/internal/api/handlers"
	"supplement-advisor/internal/api/middleware"
	reminderService "supplement-advisor/internal/core/reminder"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// CreateResponse 建立成功
type CreateResponse struct {
	Success  bool             `json:"success"`
	Reminder *common.Reminder `json:"reminder"`
}

// ListResponse 提醒清單
type ListResponse struct {
	Reminders []common.Reminder `json:"reminders"`
}

// Handler 服用提醒 API，皆需登入
type Handler struct {
	service *reminderService.Service
	now     func() time.Time
}

// NewHandler 創建處理程序
func NewHandler(service *reminderService.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// HandleCreate POST /reminders
func (h *Handler) HandleCreate(c *gin.Context) {
	var in reminderService.Input
	if !handlers.BindJSON(c, &in) {
		return
	}

	reminder, err := h.service.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateResponse{Success: true, Reminder: reminder})
}

// HandleList GET /reminders
func (h *Handler) HandleList(c *gin.Context) {
	reminders, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Reminders: reminders})
}

// HandleToday GET /reminders/today；可用 ?day=월 指定星期
func (h *Handler) HandleToday(c *gin.Context) {
	day := h.now().Weekday()
	if label := c.Query("day"); label != "" {
		found := false
		for i, w := range reminderService.Weekdays {
			if w == label {
				day, found = time.Weekday(i), true
				break
			}
		}
		if !found {
			handlers.RespondError(c, common.NewValidationError("요일 형식이 올바르지 않습니다."))
			return
		}
	}

	reminders, err := h.service.RemindersForDay(c.Request.Context(), middleware.UserID(c), day)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Reminders: reminders})
}

// HandleDelete DELETE /reminders/:id；不存在的 id 也回成功
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
