package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplement-advisor/internal/infrastructure/kv"
	"supplement-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore 記錄寫入與刪除次數
type countingStore struct {
	*kv.MemoryStore
	sets    int
	deletes int
}

func (s *countingStore) Set(ctx context.Context, key string, value interface{}) error {
	s.sets++
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.deletes++
	return s.MemoryStore.Delete(ctx, key)
}

func newTestService() (*Service, *countingStore) {
	store := &countingStore{MemoryStore: kv.NewMemoryStore("")}
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600)) }
	return svc, store
}

func TestReminder_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", Input{Supplement: "비타민D", Time: "09:00", Days: []string{"월", "수", "금"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-03-01T00:30:00Z", created.CreatedAt)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "비타민D", list[0].Supplement)
	assert.Equal(t, "09:00", list[0].Time)
	assert.Equal(t, []string{"월", "수", "금"}, list[0].Days)

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))

	list, err = svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReminder_DeleteIsIdempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", Input{Supplement: "오메가3", Time: "21:00", Days: []string{"일"}})
	require.NoError(t, err)
	require.Equal(t, 1, store.sets)

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, 1, store.deletes, "last reminder removes the key")
	assert.Zero(t, store.Len())

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))
	require.NoError(t, svc.Delete(ctx, "user-1", "never-existed"))
	assert.Equal(t, 1, store.sets, "missing id does not write")
	assert.Equal(t, 1, store.deletes)
}

func TestReminder_DeleteKeepsRemaining(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", Input{Supplement: "오메가3", Time: "21:00", Days: []string{"일"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", Input{Supplement: "마그네슘", Time: "22:00", Days: []string{"월"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", first.ID))
	assert.Equal(t, 3, store.sets)
	assert.Zero(t, store.deletes)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "마그네슘", list[0].Supplement)
}

func TestReminder_UsersAreIsolated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", Input{Supplement: "철분", Time: "08:00", Days: []string{"화"}})
	require.NoError(t, err)

	list, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	// bob 無法刪除 alice 的提醒
	require.NoError(t, svc.Delete(ctx, "bob", created.ID))
	list, err = svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReminder_Unauthorized(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	for _, id := range []string{"", "a:b", "has space"} {
		_, err := svc.Create(ctx, id, Input{Supplement: "x", Time: "09:00", Days: []string{"월"}})
		assert.True(t, errors.Is(err, common.ErrUnauthorized), id)

		_, err = svc.List(ctx, id)
		assert.True(t, errors.Is(err, common.ErrUnauthorized), id)

		err = svc.Delete(ctx, id, "r1")
		assert.True(t, errors.Is(err, common.ErrUnauthorized), id)
	}
	assert.Zero(t, store.sets)
}

func TestReminder_Validation(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		in   Input
	}{
		{"blank supplement", Input{Supplement: " ", Time: "09:00", Days: []string{"월"}}},
		{"bad time", Input{Supplement: "x", Time: "9:00", Days: []string{"월"}}},
		{"hour out of range", Input{Supplement: "x", Time: "24:00", Days: []string{"월"}}},
		{"no days", Input{Supplement: "x", Time: "09:00"}},
		{"unknown day", Input{Supplement: "x", Time: "09:00", Days: []string{"Mon"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tt.in)
			assert.True(t, common.IsValidationError(err), "got %v", err)
		})
	}
	assert.Zero(t, store.sets)
}

func TestReminder_DuplicateDaysRemoved(t *testing.T) {
	svc, _ := newTestService()

	r, err := svc.Create(context.Background(), "user-1", Input{Supplement: "아연", Time: "12:00", Days: []string{"금", "월", "금"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"금", "월"}, r.Days)
}

func TestRemindersForDay(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", Input{Supplement: "마그네슘", Time: "22:00", Days: []string{"월", "화"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", Input{Supplement: "비타민C", Time: "08:00", Days: []string{"월"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", Input{Supplement: "오메가3", Time: "13:00", Days: []string{"수"}})
	require.NoError(t, err)

	monday, err := svc.RemindersForDay(ctx, "user-1", time.Monday)
	require.NoError(t, err)
	require.Len(t, monday, 2)
	assert.Equal(t, "비타민C", monday[0].Supplement)
	assert.Equal(t, "마그네슘", monday[1].Supplement)

	sunday, err := svc.RemindersForDay(ctx, "user-1", time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, sunday)
}
