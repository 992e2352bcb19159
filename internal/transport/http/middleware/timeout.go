package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "qbot-api/internal/transport/http/response"
)

// Timeout 给请求上下文加截止时间；AI 调用和 DB 都吃这个 ctx
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			resp.AbortFail(c, http.StatusGatewayTimeout, "request timed out")
		}
	}
}
