package middleware

import (
	"net/http"
	"sync"
	"time"

	"minimart/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgTooManyLogins   = "Too many sign-in attempts. Try again in a minute."
	msgTooManyRequests = "Too many requests. Please try again shortly."

	purgeInterval = 5 * time.Minute
)

// window tracks request counts for one IP within a fixed window.
type window struct {
	count int
	end   time.Time
}

// limiter is a per-IP fixed-window counter. Expired entries are purged
// lazily, at most once per purgeInterval.
type limiter struct {
	limit     int
	period    time.Duration
	mu        sync.Mutex
	entries   map[string]*window
	lastPurge time.Time
	now       func() time.Time
}

func newLimiter(limit int, period time.Duration) *limiter {
	return &limiter{limit: limit, period: period, entries: make(map[string]*window), now: time.Now}
}

// allow records one hit for ip and reports whether it is within the limit,
// plus when the current window ends.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	w, ok := l.entries[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.period)}
		l.entries[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

func (l *limiter) purge(now time.Time) {
	purged := 0
	for ip, w := range l.entries {
		if now.After(w.end) {
			delete(l.entries, ip)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter purged")
	}
}

// LoginRateLimiter limits sign-in attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msgTooManyLogins))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general per-IP limiter for the API.
func RateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, period)
	return func(c *gin.Context) {
		ok, end := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", end.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msgTooManyRequests))
			return
		}
		c.Next()
	}
}
