package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter throttles by client IP using a redis-backed window. rateStr is
// a limiter format string like "120-M". A misconfigured rate degrades to a
// pass-through rather than taking the gateway down.
func RateLimiter(rateStr string, client *redis.Client) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		logDisabled("bad rate %q: %v", rateStr, err)
		return func(c *gin.Context) { c.Next() }
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "staybook:ratelimit",
		MaxRetry: 3,
	})
	if err != nil {
		logDisabled("store error: %v", err)
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate))
}

func logDisabled(format string, args ...interface{}) {
	if logger.ErrorLogger == nil {
		return
	}
	logger.ErrorLogger.Errorf("rate limiter disabled, "+format, args...)
}
