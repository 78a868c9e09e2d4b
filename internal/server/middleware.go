package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// requestIDKey is the context key and response header for request IDs.
const requestIDKey = "X-Request-ID"

// requestID tags every request with a UUID so log lines and responses can be
// correlated. An incoming ID from a trusted proxy is kept.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDKey, id)
		c.Next()
	}
}

// rateLimit applies a process-wide token bucket; bursts of twice the
// sustained rate are tolerated.
func rateLimit(requestsPerSec float64) gin.HandlerFunc {
	burst := int(requestsPerSec * 2)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSec), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
