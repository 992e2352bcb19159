package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "qbot-api/internal/transport/http/response"
)

// RateLimit 全局令牌桶
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			resp.AbortFail(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}

// RateLimitPerIP 每客户端 IP 一个桶；ask 接口用 1 次/分钟限制 AI 开销
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets[ip]
		if !ok {
			lim = rate.NewLimiter(rps, burst)
			buckets[ip] = lim
		}
		mu.Unlock()
		if !lim.Allow() {
			resp.AbortFail(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
