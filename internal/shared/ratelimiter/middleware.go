package ratelimiter

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fiction_backend/internal/platform/http/apierror"
)

const msgRateLimited = "Rate limit exceeded. Please try again later."

// Middleware はクライアントIPごとにlimiterを適用するginミドルウェアを返します。
// 上限を超えたリクエストは429で中断し、後続のハンドラーは実行されません。
// Redisエラーなどで判定できない場合はリクエストを通します。
func Middleware(name string, limiter Limiter) gin.HandlerFunc {
	rule := limiter.Rule()
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "rule", name, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			secs := int(math.Ceil(res.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			slog.Warn("rate limit exceeded", "rule", name, "remote_addr", c.ClientIP())
			apierror.AbortWithDetail(c, http.StatusTooManyRequests, msgRateLimited, rule.String())
			return
		}

		c.Next()
	}
}
