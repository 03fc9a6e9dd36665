package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/brimesh123/search-engine/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateLimiter struct {
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	mu      sync.Mutex
}

// RateLimiter returns a per-IP fixed-window rate limiter. A limit of zero or
// less disables it.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := &rateLimiter{limit: limit, window: window, entries: make(map[string]*rateEntry)}
	go l.purgeExpiredEntries()
	return l.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()

	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &rateEntry{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	over := entry.count > l.limit
	retryAfter := entry.windowEnd.Sub(now)
	entry.mu.Unlock()

	if over {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests, try again shortly"))
		return
	}
	c.Next()
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func (l *rateLimiter) purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		l.mu.Lock()
		purged := 0
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}
