package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/artivio/artivio-chain/internal/api/shared/errors"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/ratelimit"
)

// RateLimit rejects clients that exceed their request budget with 429.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.NewTooManyRequestsError("Too many requests"))
			return
		}

		c.Next()
	}
}
