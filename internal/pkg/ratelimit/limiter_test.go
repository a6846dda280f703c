package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterFixedWindow(t *testing.T) {
	l := NewLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("user-1", "feedback"), "attempt %d should pass", i+1)
	}
	assert.False(t, l.Allow("user-1", "feedback"))

	// Other users and other actions have their own windows
	assert.True(t, l.Allow("user-2", "feedback"))
	assert.True(t, l.Allow("user-1", "survey"))
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := NewLimiter(1, 30*time.Millisecond)

	assert.True(t, l.Allow("user-1", "reason"))
	assert.False(t, l.Allow("user-1", "reason"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, l.Allow("user-1", "reason"))
}
