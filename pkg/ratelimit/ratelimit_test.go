package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_Allow(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	// 용량만큼 허용
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())

	// 토큰 소진
	assert.False(t, tb.Allow())
}

func TestTokenBucket_Refill(t *testing.T) {
	tb := NewTokenBucket(2, 2)

	assert.True(t, tb.AllowN(2))
	assert.False(t, tb.Allow())

	// 1초 후 refillRate만큼 충전
	time.Sleep(1100 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	// 키별로 독립된 버킷
	assert.True(t, rl.Allow("user:a"))
	assert.False(t, rl.Allow("user:a"))
	assert.True(t, rl.Allow("user:b"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("user:a"))
	assert.False(t, rl.Allow("user:a"))

	rl.Reset("user:a")
	assert.True(t, rl.Allow("user:a"))
}
