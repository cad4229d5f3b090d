package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/ratelimit"
)

// RateLimit returns middleware that limits requests per learner, or per
// client address for anonymous requests. It must run after authentication.
// A limiter failure lets the request through.
func RateLimit(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("limiter cannot be nil for RateLimit")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.FromContextOrDefault(r.Context(), slog.Default()).Warn("rate limiter unavailable",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if learnerID, ok := shared.LearnerIDFromContext(r.Context()); ok {
		return "learner:" + learnerID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
