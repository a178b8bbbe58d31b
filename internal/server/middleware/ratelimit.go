package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iudanet/keepsake/pkg/api"
)

// DefaultMaxClients bounds the number of tracked client buckets
const DefaultMaxClients = 10_000

// RateLimiter представляет rate limiter с фиксированным окном на ключ.
// Buckets live in an LRU, so the least recently seen clients are forgotten
// first once maxClients is reached.
type RateLimiter struct {
	buckets *lru.Cache[string, *bucket]
	now     func() time.Time
	rate    int
	window  time.Duration
	// mu serialises get-or-create of buckets
	mu sync.Mutex
}

// bucket представляет bucket для конкретного IP/ключа
type bucket struct {
	windowStart time.Time
	tokens      int
	mu          sync.Mutex
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов за window
// maxClients <= 0 uses DefaultMaxClients
func NewRateLimiter(rate int, window time.Duration, maxClients int) *RateLimiter {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	// lru.New fails only on a non-positive size
	buckets, _ := lru.New[string, *bucket](maxClients)

	return &RateLimiter{
		buckets: buckets,
		now:     time.Now,
		rate:    rate,
		window:  window,
	}
}

// Allow проверяет, разрешен ли запрос для данного ключа (обычно IP адрес).
// When it is not, retryAfter is the time left until the window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	b, ok := rl.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: rl.rate, windowStart: now}
		rl.buckets.Add(key, b)
	}
	rl.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.windowStart) >= rl.window {
		b.tokens = rl.rate
		b.windowStart = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.windowStart.Add(rl.window).Sub(now)
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	return rl.buckets.Len()
}

// RateLimitMiddleware создает middleware для ограничения частоты запросов по IP
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return RateLimitByPathMiddleware(nil, limiter, logger)
}

// PathRateLimit applies Limiter to request paths starting with Prefix
type PathRateLimit struct {
	Limiter *RateLimiter
	Prefix  string
}

// RateLimitByPathMiddleware создает middleware с отдельными лимитами для
// префиксов путей. The first matching prefix wins; other paths use fallback.
func RateLimitByPathMiddleware(limits []PathRateLimit, fallback *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := fallback
			for _, l := range limits {
				if strings.HasPrefix(r.URL.Path, l.Prefix) {
					limiter = l.Limiter
					break
				}
			}
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", sanitizePath(r.URL.Path),
					"retry_after", retryAfter,
				)

				// Клиент с retryablehttp сам выдержит паузу из Retry-After
				seconds := int((retryAfter + time.Second - 1) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{
					Error:   http.StatusText(http.StatusTooManyRequests),
					Message: "rate limit exceeded, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	// Берем первый IP из списка (реальный клиент)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr содержит порт, который меняется от соединения к соединению
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
