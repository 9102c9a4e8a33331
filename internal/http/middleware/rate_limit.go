package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"mafia_webapp/internal/logger"
)

var rdb *redis.Client

// InitRedisRateLimiter подключает Redis для лимитера. Пустой адрес
// оставляет лимитер выключенным (локальная разработка).
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter выключен: REDIS_ADDR не задан")
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter выключен: redis недоступен", "error", err)
		rdb = nil
		return
	}
	logger.Info("rate limiter подключен к redis", "addr", addr)
}

// RateLimit ограничивает число запросов с одного IP за окно.
// Счетчик живет в Redis, так что лимит общий для всех реплик.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "rl:" + c.ClientIP() + ":" + c.FullPath()
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// недоступный redis не должен ронять трафик
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "слишком много запросов",
			})
			return
		}
		c.Next()
	}
}
