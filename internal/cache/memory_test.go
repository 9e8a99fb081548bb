package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	task := cachedTask{ID: "t1", Title: "Write report"}
	require.NoError(t, c.Set("task:t1", task, time.Minute))

	var got cachedTask
	require.NoError(t, c.Get("task:t1", &got))
	assert.Equal(t, task, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("task:t1", cachedTask{ID: "t1"}, -time.Second))

	var got cachedTask
	assert.ErrorIs(t, c.Get("task:t1", &got), ErrCacheMiss)

	found, err := c.Exists("task:t1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("tasks_paginated:1:10", cachedTask{}, time.Minute))
	require.NoError(t, c.Set("tasks_paginated:2:10", cachedTask{}, time.Minute))
	require.NoError(t, c.Set("task:t1", cachedTask{}, time.Minute))

	require.NoError(t, c.DeletePattern("tasks_paginated:*"))

	found, _ := c.Exists("tasks_paginated:1:10")
	assert.False(t, found)
	found, _ = c.Exists("task:t1")
	assert.True(t, found)
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("task:t1", cachedTask{}, time.Minute))

	var got cachedTask
	c.Get("task:t1", &got)
	c.Get("task:absent", &got)

	stats := c.Stats()
	assert.Equal(t, 1, stats["entries"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}
