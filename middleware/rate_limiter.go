// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
	// noBlock endpoints are throttled but never block the caller's IP
	noBlock bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles per IP and route. An IP that exceeds a limit is
// blocked on every route for blockDuration.
type RateLimiter struct {
	mu             sync.Mutex
	visitors       map[string]*visitor
	blocked        map[string]time.Time
	defaults       endpointLimit
	endpoints      map[string]endpointLimit
	blockDuration  time.Duration
	idleExpiration time.Duration
}

func NewRateLimiter() *RateLimiter {
	r := &RateLimiter{
		visitors:       make(map[string]*visitor),
		blocked:        make(map[string]time.Time),
		defaults:       endpointLimit{limit: rate.Every(100 * time.Millisecond), burst: 20},
		endpoints:      make(map[string]endpointLimit),
		blockDuration:  5 * time.Minute,
		idleExpiration: 10 * time.Minute,
	}

	// Credential endpoints are strict to slow brute force attempts
	r.setEndpointLimit("/api/auth/login", endpointLimit{limit: rate.Every(2 * time.Second), burst: 5})
	r.setEndpointLimit("/api/admin/login", endpointLimit{limit: rate.Every(2 * time.Second), burst: 5})
	r.setEndpointLimit("/api/auth/register", endpointLimit{limit: rate.Every(500 * time.Millisecond), burst: 5})
	r.setEndpointLimit("/api/auth/forgot-password", endpointLimit{limit: rate.Every(20 * time.Second), burst: 3})
	r.setEndpointLimit("/api/auth/reset-password", endpointLimit{limit: rate.Every(2 * time.Second), burst: 5})
	r.setEndpointLimit("/api/withdrawals", endpointLimit{limit: rate.Every(time.Second), burst: 5})

	// Provider callbacks arrive in bursts after an outage
	r.setEndpointLimit("/api/payments/webhook", endpointLimit{limit: rate.Every(20 * time.Millisecond), burst: 100, noBlock: true})

	go r.janitor()
	return r
}

func (r *RateLimiter) setEndpointLimit(path string, l endpointLimit) {
	r.endpoints[path] = l
}

// janitor drops idle limiters and expired blocks
func (r *RateLimiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for now := range ticker.C {
		r.mu.Lock()
		for key, v := range r.visitors {
			if now.Sub(v.lastSeen) > r.idleExpiration {
				delete(r.visitors, key)
			}
		}
		for ip, until := range r.blocked {
			if now.After(until) {
				delete(r.blocked, ip)
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Health probes are never limited
			if strings.HasPrefix(c.Request().URL.Path, "/health") {
				return next(c)
			}

			ip := c.RealIP()
			path := c.Path()
			l, ok := r.endpoints[path]
			if !ok {
				l = r.defaults
			}

			if until, blocked := r.blockedUntil(ip); blocked && !l.noBlock {
				return tooManyRequests(c, until)
			}

			if !r.allow(ip+"|"+path, l) {
				until := time.Now().Add(time.Second)
				if !l.noBlock {
					until = r.block(ip)
					logger.Log.Warn("rate limit exceeded, blocking IP",
						zap.String("ip", ip), zap.String("path", path))
				}
				return tooManyRequests(c, until)
			}
			return next(c)
		}
	}
}

func (r *RateLimiter) blockedUntil(ip string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.blocked[ip]
	if !ok {
		return time.Time{}, false
	}
	if time.Now().After(until) {
		delete(r.blocked, ip)
		return time.Time{}, false
	}
	return until, true
}

func (r *RateLimiter) block(ip string) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	until := time.Now().Add(r.blockDuration)
	r.blocked[ip] = until
	prefix := ip + "|"
	for key := range r.visitors {
		if strings.HasPrefix(key, prefix) {
			delete(r.visitors, key)
		}
	}
	return until
}

func (r *RateLimiter) allow(key string, l endpointLimit) bool {
	r.mu.Lock()
	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = time.Now()
	r.mu.Unlock()
	return v.limiter.Allow()
}

func tooManyRequests(c echo.Context, until time.Time) error {
	seconds := int(time.Until(until).Seconds()) + 1
	c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
		Data:    map[string]string{"retryAfter": until.Format(time.RFC3339)},
	})
}
