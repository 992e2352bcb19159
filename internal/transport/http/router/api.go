package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"qbot-api/internal/core/auth"
	"qbot-api/internal/transport/http/handler"
	mdw "qbot-api/internal/transport/http/middleware"
)

type Deps struct {
	Log          *zap.Logger
	JWTer        *auth.JWTer
	Auth         *handler.AuthHandler
	Qna          *handler.QnaHandler
	AllowOrigins []string
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(60*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		corsMiddleware(d.AllowOrigins),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
	}

	questions := r.Group("/questions")
	questions.GET("/health", d.Qna.Health) // 存活探针，不鉴权

	protected := questions.Group("")
	protected.Use(mdw.AuthJWT(d.JWTer))
	{
		// ask 单独限流，约束 AI 花销
		protected.POST("/ask", mdw.RateLimitPerIP(rate.Every(time.Minute), 1), d.Qna.Ask)
		protected.GET("/history", d.Qna.History)
		protected.GET("/:id", d.Qna.Get)
		protected.DELETE("/:id", d.Qna.Delete)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = time.Hour
	return cors.New(cfg)
}
