package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qbot-api/internal/core/auth"
	resp "qbot-api/internal/transport/http/response"
)

const KeyUserID = "userId"

// AuthJWT 解析 Bearer 令牌并把已验证的 user id 放进上下文。
// 头缺失、格式坏、签名/过期问题一律 401。
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortFail(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		uid, err := j.Verify(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortFail(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(KeyUserID, uid)
		c.Next()
	}
}
