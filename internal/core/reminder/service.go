package reminder

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"supplement-advisor/internal/infrastructure/kv"
	"supplement-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Weekdays 星期標籤，索引與 time.Weekday 相同（일=Sunday）
var Weekdays = []string{"일", "월", "화", "수", "목", "금", "토"}

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Input 建立提醒的參數
type Input struct {
	Supplement string   `json:"supplement"`
	Time       string   `json:"time"`
	Days       []string `json:"days"`
}

// Service 每位使用者的服用提醒，存於 reminders:<userId>
type Service struct {
	store kv.Store
	now   func() time.Time
}

// NewService 創建提醒服務
func NewService(store kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Key 使用者提醒清單的鍵
func Key(userID string) string {
	return "reminders:" + userID
}

// Create 驗證後附加到使用者的提醒清單
func (s *Service) Create(ctx context.Context, userID string, in Input) (*common.Reminder, error) {
	if err := checkIdentity(userID); err != nil {
		return nil, err
	}

	reminder, err := s.newReminder(in)
	if err != nil {
		return nil, err
	}

	reminders, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	reminders = append(reminders, *reminder)

	if err := s.save(ctx, userID, reminders); err != nil {
		return nil, err
	}

	common.LogInfo("提醒已建立",
		zap.String("user_id", userID),
		zap.String("reminder_id", reminder.ID),
	)
	return reminder, nil
}

// List 回傳使用者的所有提醒（建立順序）
func (s *Service) List(ctx context.Context, userID string) ([]common.Reminder, error) {
	if err := checkIdentity(userID); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// Delete 移除指定提醒；id 不存在時視為成功且不寫入儲存。
// 最後一筆被移除時整個鍵一併刪除。
func (s *Service) Delete(ctx context.Context, userID, reminderID string) error {
	if err := checkIdentity(userID); err != nil {
		return err
	}

	reminders, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]common.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.ID != reminderID {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(reminders) {
		common.LogDebug("刪除的提醒不存在",
			zap.String("user_id", userID),
			zap.String("reminder_id", reminderID),
		)
		return nil
	}

	if len(kept) == 0 {
		if err := s.store.Delete(ctx, Key(userID)); err != nil {
			return fmt.Errorf("failed to delete reminders: %w", err)
		}
		return nil
	}
	return s.save(ctx, userID, kept)
}

// RemindersForDay 指定星期的提醒，依時間排序
func (s *Service) RemindersForDay(ctx context.Context, userID string, day time.Weekday) ([]common.Reminder, error) {
	reminders, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	label := Weekdays[day]
	out := make([]common.Reminder, 0, len(reminders))
	for _, r := range reminders {
		for _, d := range r.Days {
			if d == label {
				out = append(out, r)
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *Service) newReminder(in Input) (*common.Reminder, error) {
	supplement := strings.TrimSpace(in.Supplement)
	if supplement == "" {
		return nil, common.NewValidationError("영양제 이름을 입력해주세요.")
	}

	t := strings.TrimSpace(in.Time)
	if !timePattern.MatchString(t) {
		return nil, common.NewValidationError("시간은 HH:MM 형식이어야 합니다.")
	}

	days, err := normalizeDays(in.Days)
	if err != nil {
		return nil, err
	}

	return &common.Reminder{
		ID:         common.GenerateUUID(),
		Supplement: supplement,
		Time:       t,
		Days:       days,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	}, nil
}

// normalizeDays 去除重複並保留輸入順序
func normalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool)
	for _, d := range days {
		d = strings.TrimSpace(d)
		if !isWeekday(d) {
			return nil, common.NewValidationError(fmt.Sprintf("알 수 없는 요일입니다: %q", d))
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, common.NewValidationError("요일을 하나 이상 선택해주세요.")
	}
	return out, nil
}

func isWeekday(label string) bool {
	for _, w := range Weekdays {
		if w == label {
			return true
		}
	}
	return false
}

// checkIdentity 使用者 id 是鍵的一部分，不可為空或包含分隔符
func checkIdentity(userID string) error {
	if userID == "" || strings.ContainsAny(userID, ": \t\r\n") {
		return common.NewUnauthorizedError("")
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID string) ([]common.Reminder, error) {
	var reminders []common.Reminder
	if _, err := s.store.Get(ctx, Key(userID), &reminders); err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	if reminders == nil {
		reminders = []common.Reminder{}
	}
	return reminders, nil
}

func (s *Service) save(ctx context.Context, userID string, reminders []common.Reminder) error {
	if err := s.store.Set(ctx, Key(userID), reminders); err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}
