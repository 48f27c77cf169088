package middleware

import (
	"context"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter - счетчик запросов в окне
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter - фиксированное окно в Redis. Ошибки Redis пропускают запрос.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		logger.CtxWithError(ctx, "Rate limiter unavailable", err, "key", key)
		return true
	}
	return allowed == 1
}

// RateLimit ограничивает запросы с одного IP. nil limiter отключает проверку.
func RateLimit(limiter Limiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := "ratelimit:" + prefix + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, limit, window) {
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
