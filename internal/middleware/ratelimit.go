package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/pkg/clientip"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPLimiter hands out one token bucket per client IP. Buckets idle for
// longer than limiterTTL are dropped by the cleanup loop.
type IPLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func NewIPLimiter(limit rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		limit:   limit,
		burst:   burst,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow reports whether ip may make a request now.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = l.now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// Burst is the bucket size, reported in X-RateLimit-Limit.
func (l *IPLimiter) Burst() int { return l.burst }

// Len counts tracked IPs.
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep drops buckets not used since before now-limiterTTL.
func (l *IPLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, e := range l.entries {
		if now.Sub(e.lastUse) > limiterTTL {
			delete(l.entries, ip)
		}
	}
}

// RunCleanup sweeps idle buckets until ctx is done.
func (l *IPLimiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Limit rejects requests with 429 once the client's bucket is empty. match
// selects the requests it applies to; nil matches everything.
func Limit(l *IPLimiter, match func(*http.Request) bool, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match != nil && !match(r) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Burst()))
			if !l.Allow(clientip.RealClientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Global: 1 req/s per IP, burst 10.
func NewGlobalLimiter() *IPLimiter { return NewIPLimiter(rate.Limit(1), 10) }

// Login: 1 req per 5s per IP, burst 2.
func NewLoginLimiter() *IPLimiter { return NewIPLimiter(rate.Every(5*time.Second), 2) }

// Chat: 30 messages/min per IP, burst 10.
func NewChatLimiter() *IPLimiter { return NewIPLimiter(rate.Limit(0.5), 10) }

var loginPaths = map[string]bool{
	"/api/session/login":  true,
	"/api/session/signup": true,
}

// IsLogin matches the session sign-in routes.
func IsLogin(r *http.Request) bool {
	return r.Method == http.MethodPost && loginPaths[r.URL.Path]
}

// IsChat matches AI chat messages.
func IsChat(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/api/ai/chat"
}
