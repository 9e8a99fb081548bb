package cache

import (
	"errors"
	"sync"
	"time"
)

type CircuitBreakerState int

const (
	CircuitBreakerClosed CircuitBreakerState = iota
	CircuitBreakerOpen
	CircuitBreakerHalfOpen
)

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitBreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	maxFailures      int
	timeout          time.Duration
	halfOpenMaxCalls int
}

type CircuitBreakerConfig struct {
	MaxFailures      int           `json:"max_failures"`
	Timeout          time.Duration `json:"timeout"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	return &CircuitBreaker{
		state:            CircuitBreakerClosed,
		maxFailures:      config.MaxFailures,
		timeout:          config.Timeout,
		halfOpenMaxCalls: config.HalfOpenMaxCalls,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitBreakerOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitBreakerClosed:
		return true
	case CircuitBreakerOpen:
		if time.Since(cb.lastFailureTime) >= cb.timeout {
			cb.state = CircuitBreakerHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case CircuitBreakerHalfOpen:
		return cb.successCount < cb.halfOpenMaxCalls
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.state == CircuitBreakerHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitBreakerOpen
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitBreakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMaxCalls {
			cb.state = CircuitBreakerClosed
			cb.failureCount = 0
		}
	case CircuitBreakerClosed:
		cb.failureCount = 0
	}
}

// BreakerCache wraps a cache tier with a circuit breaker so that a Redis
// outage degrades to cache misses instead of slow failing calls.
type BreakerCache struct {
	inner   Cache
	breaker *CircuitBreaker
}

func NewBreakerCache(inner Cache, config *CircuitBreakerConfig) *BreakerCache {
	return &BreakerCache{
		inner:   inner,
		breaker: NewCircuitBreaker(config),
	}
}

func (b *BreakerCache) Set(key string, value interface{}, ttl time.Duration) error {
	err := b.breaker.Execute(func() error {
		return b.inner.Set(key, value, ttl)
	})
	return downWhenOpen(err)
}

// downWhenOpen surfaces an open breaker on write paths as ErrCacheDown so
// callers see one sentinel regardless of which tier rejected the write.
func downWhenOpen(err error) error {
	if errors.Is(err, ErrCircuitBreakerOpen) {
		return ErrCacheDown
	}
	return err
}

func (b *BreakerCache) Get(key string, dest interface{}) error {
	var missed bool
	err := b.breaker.Execute(func() error {
		err := b.inner.Get(key, dest)
		if errors.Is(err, ErrCacheMiss) {
			// A miss is a healthy response, not a failure.
			missed = true
			return nil
		}
		return err
	})
	if errors.Is(err, ErrCircuitBreakerOpen) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if missed {
		return ErrCacheMiss
	}
	return nil
}

func (b *BreakerCache) Delete(key string) error {
	err := b.breaker.Execute(func() error {
		return b.inner.Delete(key)
	})
	return downWhenOpen(err)
}

func (b *BreakerCache) DeletePattern(pattern string) error {
	err := b.breaker.Execute(func() error {
		return b.inner.DeletePattern(pattern)
	})
	return downWhenOpen(err)
}

func (b *BreakerCache) Exists(key string) (bool, error) {
	var found bool
	err := b.breaker.Execute(func() error {
		var innerErr error
		found, innerErr = b.inner.Exists(key)
		return innerErr
	})
	return found, err
}

func (b *BreakerCache) Stats() map[string]interface{} {
	stats := b.inner.Stats()
	stats["breaker_state"] = int(b.breaker.State())
	return stats
}

func (b *BreakerCache) Health() error {
	return b.inner.Health()
}

func (b *BreakerCache) Close() error {
	return b.inner.Close()
}
