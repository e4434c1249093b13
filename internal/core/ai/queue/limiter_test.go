package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_DisabledIsNil(t *testing.T) {
	l := NewLimiter(config.QueueConfig{})
	assert.Nil(t, l)
	assert.Nil(t, l.Status())

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release()
}

func TestLimiter_RejectsWhenQueueFull(t *testing.T) {
	l := NewLimiter(config.QueueConfig{Workers: 1, MaxWaiting: 0})

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, l.Status().InFlight)

	_, err = l.Acquire(context.Background())
	assert.True(t, errors.Is(err, common.ErrTooManyRequests), "got %v", err)

	release()
	release, err = l.Acquire(context.Background())
	require.NoError(t, err)
	release()

	status := l.Status()
	assert.Equal(t, int64(2), status.ProcessedCount)
	assert.Zero(t, status.InFlight)
}

func TestLimiter_WaitsForSlot(t *testing.T) {
	l := NewLimiter(config.QueueConfig{Workers: 1, MaxWaiting: 1})

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		r, err := l.Acquire(context.Background())
		if err == nil {
			r()
		}
		acquired <- err
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiting request never acquired a slot")
	}
}

func TestLimiter_DeadlineWhileWaiting(t *testing.T) {
	l := NewLimiter(config.QueueConfig{Workers: 1, MaxWaiting: 1})

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx)
	assert.True(t, errors.Is(err, common.ErrTimeout), "got %v", err)
	assert.Zero(t, l.Status().Waiting)
}
