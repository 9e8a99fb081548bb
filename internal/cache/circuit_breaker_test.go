package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      3,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	failing := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(failing))
	}

	assert.Equal(t, CircuitBreakerOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(failing), ErrCircuitBreakerOpen)
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          time.Millisecond,
		HalfOpenMaxCalls: 1,
	})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.Equal(t, CircuitBreakerOpen, cb.State())

	time.Sleep(5 * time.Millisecond)

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CircuitBreakerClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	time.Sleep(5 * time.Millisecond)

	assert.Error(t, cb.Execute(func() error { return errors.New("still down") }))
	assert.Equal(t, CircuitBreakerOpen, cb.State())
}

func TestBreakerCacheDegradesToMiss(t *testing.T) {
	l2, mr := setupRedisCache(t)
	c := NewBreakerCache(l2, &CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	require.NoError(t, c.Set("task:t1", cachedTask{ID: "t1"}, time.Minute))

	var got cachedTask
	require.NoError(t, c.Get("task:t1", &got))

	mr.Close()

	// First failing call trips the breaker, later reads degrade to misses.
	assert.Error(t, c.Set("task:t2", cachedTask{ID: "t2"}, time.Minute))
	assert.ErrorIs(t, c.Get("task:t1", &got), ErrCacheMiss)
}

func TestBreakerCacheReportsDownOnWrites(t *testing.T) {
	l2, mr := setupRedisCache(t)
	c := NewBreakerCache(l2, &CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	mr.Close()

	// First failing call trips the breaker.
	require.Error(t, c.Set("task:t1", cachedTask{ID: "t1"}, time.Minute))
	require.Equal(t, CircuitBreakerOpen, c.breaker.State())

	assert.ErrorIs(t, c.Set("task:t2", cachedTask{ID: "t2"}, time.Minute), ErrCacheDown)
	assert.ErrorIs(t, c.Delete("task:t1"), ErrCacheDown)
	assert.ErrorIs(t, c.DeletePattern("task:*"), ErrCacheDown)
}

func TestBreakerCachePassesThroughMiss(t *testing.T) {
	l2, _ := setupRedisCache(t)
	c := NewBreakerCache(l2, nil)

	var got cachedTask
	assert.ErrorIs(t, c.Get("task:absent", &got), ErrCacheMiss)
	assert.Equal(t, CircuitBreakerClosed, c.breaker.State())
}
