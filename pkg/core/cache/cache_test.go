package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryResultCache_SetAndGet 测试缓存设置和获取
func TestMemoryResultCache_SetAndGet(t *testing.T) {
	c := NewMemoryResultCache(0)
	defer c.Close()

	require.NoError(t, c.Set("fingerprint", []string{"C", "A"}, time.Hour))

	cached, found := c.Get("fingerprint")
	require.True(t, found)
	assert.Equal(t, []string{"C", "A"}, cached)

	_, found = c.Get("")
	assert.False(t, found)
}

// TestMemoryResultCache_TTLExpiration 测试缓存TTL过期
func TestMemoryResultCache_TTLExpiration(t *testing.T) {
	c := NewMemoryResultCache(0)
	defer c.Close()

	require.NoError(t, c.Set("k", "v", 50*time.Millisecond))
	_, found := c.Get("k")
	require.True(t, found)

	time.Sleep(80 * time.Millisecond)

	_, found = c.Get("k")
	assert.False(t, found)
	assert.Zero(t, c.Len())
}

// TestMemoryResultCache_BackgroundCleanup 测试后台清理
func TestMemoryResultCache_BackgroundCleanup(t *testing.T) {
	c := NewMemoryResultCache(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set("k", "v", time.Millisecond))
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMemoryResultCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryResultCache(0)
	defer c.Close()

	_ = c.Set("a", 1, time.Hour)
	_ = c.Set("b", 2, time.Hour)

	require.NoError(t, c.Delete("a"))
	_, found := c.Get("a")
	assert.False(t, found)

	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

// TestMemoryResultCache_ConcurrentAccess 测试缓存并发安全
func TestMemoryResultCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryResultCache(0)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", idx)
			_ = c.Set(key, idx, time.Hour)
			v, ok := c.Get(key)
			assert.True(t, ok)
			assert.Equal(t, idx, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, c.Len())
}
