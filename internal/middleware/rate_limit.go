package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/types"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter is a fixed window counter shared by every API instance.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new rate limiter instance
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:api"
	}
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow increments the counter for key in the current window.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// INCR and EXPIRE go out in one round trip
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

const maxLocalClients = 10000

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is a token bucket per key kept in process memory. It is used
// when no redis server is configured.
type LocalLimiter struct {
	mu      sync.Mutex
	clients map[string]*localClient
	config  RateLimitConfig
	every   rate.Limit
}

func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		clients: make(map[string]*localClient),
		config:  config,
		every:   rate.Every(config.Window / time.Duration(config.Limit)),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	l.mu.Lock()
	client, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= maxLocalClients {
			l.evictIdle(now)
		}
		client = &localClient{limiter: rate.NewLimiter(l.every, l.config.Limit)}
		l.clients[key] = client
	}
	client.lastSeen = now
	allowed := client.limiter.AllowN(now, 1)
	remaining := int(client.limiter.TokensAt(now))
	l.mu.Unlock()

	return Decision{
		Allowed:   allowed,
		Limit:     l.config.Limit,
		Remaining: max(remaining, 0),
		Reset:     now.Add(l.config.Window / time.Duration(l.config.Limit)),
	}, nil
}

// evictIdle drops clients idle for a full window; their buckets are full again.
func (l *LocalLimiter) evictIdle(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.config.Window {
			delete(l.clients, key)
		}
	}
}

// RateLimit rejects clients over their allowance with 429. Limiter failures
// let the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.Reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
