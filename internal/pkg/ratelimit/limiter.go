package ratelimit

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter is a fixed-window in-memory rate limiter keyed by user and action.
// Counters live only for the window, so an idle key costs nothing.
type Limiter struct {
	cache  *cache.Cache
	limit  int
	window time.Duration
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		cache:  cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the user may perform the action in the current
// window and counts the attempt.
func (l *Limiter) Allow(userID, action string) bool {
	key := fmt.Sprintf("%s:%s", userID, action)

	count, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		l.cache.Set(key, 1, l.window)
		return true
	}
	return count <= l.limit
}
