package cache

import (
	"testing"
	"time"

	"supplement-advisor/internal/core/ai/provider"
	"supplement-advisor/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *CacheManager {
	t.Helper()
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Hour,
	})
	require.NotNil(t, m)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNewManager_Disabled(t *testing.T) {
	assert.Nil(t, NewManager(config.CacheConfig{Enabled: false}))
}

func TestKey_DependsOnRequestContent(t *testing.T) {
	a := &provider.Request{System: "s", Prompt: "p", Temperature: 0.3, JSONMode: true}
	b := &provider.Request{System: "s", Prompt: "p", Temperature: 0.7, JSONMode: true}

	assert.Equal(t, Key("m", a), Key("m", a))
	assert.NotEqual(t, Key("m", a), Key("m", b))
	assert.NotEqual(t, Key("m", a), Key("other", a))
}

func TestManager_GetSet(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	_, ok := m.Get("k")
	assert.False(t, ok)

	require.NoError(t, m.Set("k", "v"))
	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManager_Expiry(t *testing.T) {
	m := newTestManager(t, 10, 20*time.Millisecond)

	require.NoError(t, m.Set("k", "v"))
	time.Sleep(40 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestManager_EvictsLeastUsed(t *testing.T) {
	m := newTestManager(t, 2, time.Minute)

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	_, _ = m.Get("a")

	require.NoError(t, m.Set("c", "3"))

	_, ok := m.Get("b")
	assert.False(t, ok, "least used entry is evicted")
	_, ok = m.Get("a")
	assert.True(t, ok)
	_, ok = m.Get("c")
	assert.True(t, ok)
}
