package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter holds rate limiters for each IP address
type IPRateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter
// rps: requests per second allowed per IP
// burst: maximum burst size
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow расходует токен клиента ip
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	entry, exists := i.limiters[ip]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(i.rps, i.burst)}
		i.limiters[ip] = entry
	}
	entry.lastSeen = now

	// чистим давно неактивных клиентов, чтобы map не рос бесконечно
	if len(i.limiters) > 10_000 {
		threshold := now.Add(-i.idle)
		for key, item := range i.limiters {
			if item.lastSeen.Before(threshold) {
				delete(i.limiters, key)
			}
		}
	}

	return entry.limiter.AllowN(now, 1)
}

// RateLimit middleware limits requests per IP address; onDrop может быть nil
func RateLimit(limiter *IPRateLimiter, onDrop func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientIP(r)) {
				if onDrop != nil {
					onDrop()
				}
				w.Header().Set("Retry-After", "60")
				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP берет первый адрес из X-Forwarded-For, затем X-Real-IP, затем RemoteAddr
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
