// Package ratelimit throttles clients per IP with redis_rate's GCRA limiter.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// redis_rate prefixes every key with "rate:".
const keyPrefix = "trivia:"

// Allower decides whether one more request under key fits limit.
type Allower interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

var _ Allower = (*redis_rate.Limiter)(nil)

// NewRedisAllower returns the Redis-backed Allower.
func NewRedisAllower(client *redis.Client) *redis_rate.Limiter {
	return redis_rate.NewLimiter(client)
}

// Limiter allows at most requests per client per window, with bursts up to
// the same size.
type Limiter struct {
	allower Allower
	limit   redis_rate.Limit
	logger  zerolog.Logger
}

func NewLimiter(allower Allower, requests int, window time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		allower: allower,
		limit:   redis_rate.Limit{Rate: requests, Burst: requests, Period: window},
		logger:  logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Middleware rejects requests over the limit with 429. Limiter failures let
// the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := l.allower.Allow(r.Context(), keyPrefix+clientIP(r), l.limit)
		if err != nil {
			l.logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit.Rate))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))

		if res.Allowed == 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(res.RetryAfter)))
			httperrors.RespondTooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// clientIP reads RemoteAddr, which chi's RealIP middleware may have rewritten.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
