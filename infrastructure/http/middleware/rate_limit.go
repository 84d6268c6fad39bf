package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/infrastructure/service/ratelimit"
)

// RateLimitConfig carries the per-class limits. Login gets a tight window
// because the gateway fronts credential checks; everything else shares a
// per-IP volume cap.
type RateLimitConfig struct {
	IPAttempts    int
	IPWindow      time.Duration
	LoginAttempts int
	LoginWindow   time.Duration
	BlockDuration time.Duration
}

type RateLimitMiddleware struct {
	limiter ratelimit.Service
	cfg     RateLimitConfig
	logger  logger.Logger
}

func NewRateLimitMiddleware(limiter ratelimit.Service, cfg RateLimitConfig, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, cfg: cfg, logger: logger}
}

func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := clientIP(r)

		key := "general:ip:" + clientIP
		limit := m.cfg.IPAttempts
		window := m.cfg.IPWindow
		if strings.HasSuffix(r.URL.Path, "/login") {
			key = "login:ip:" + clientIP
			limit = m.cfg.LoginAttempts
			window = m.cfg.LoginWindow
		}

		blocked, err := m.limiter.IsBlocked(ctx, key)
		if err != nil {
			// Fail open: the backend still enforces its own limits.
			m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"ip": clientIP, "key": key})
		}
		if blocked {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(m.cfg.BlockDuration.Seconds())))
			response.TooManyRequests(w, "Too many requests. Please try again later.")
			return
		}

		allowed, err := m.limiter.Allow(ctx, key, limit, window)
		if err != nil {
			// Fail open here too: a limiter outage must not take the
			// gateway down with it.
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"ip": clientIP, "key": key})
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			if err := m.limiter.Block(ctx, key, m.cfg.BlockDuration); err != nil {
				m.logger.Error(ctx, "Failed to block client", err, map[string]interface{}{"ip": clientIP, "key": key})
			}
			m.logger.Warn(ctx, "Rate limit exceeded", map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"userAgent": r.UserAgent(),
			})
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(m.cfg.BlockDuration.Seconds())))
			response.TooManyRequests(w, "Too many requests. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
