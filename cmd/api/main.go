package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qbot-api/internal/ai"
	"qbot-api/internal/core/auth"
	"qbot-api/internal/core/cache"
	"qbot-api/internal/core/config"
	"qbot-api/internal/core/database"
	"qbot-api/internal/core/logger"
	"qbot-api/internal/domain"
	"qbot-api/internal/repo"
	"qbot-api/internal/service"
	"qbot-api/internal/transport/http/handler"
	"qbot-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	var log *zap.Logger
	var cleanup func()
	if cfg.Log.File != "" {
		log, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
	} else {
		log, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.QuestionAnswer{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// redis 可选：没配地址就不走缓存
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	aiClient := ai.NewClient(ai.Options{
		APIKey:          cfg.AI.APIKey,
		BaseURL:         cfg.AI.BaseURL,
		AnswerModel:     cfg.AI.AnswerModel,
		TitleModel:      cfg.AI.TitleModel,
		AnswerMaxTokens: cfg.AI.AnswerMaxTokens,
		RequestTimeout:  time.Duration(cfg.AI.RequestTimeoutSec) * time.Second,
	})

	authSvc := service.NewAuthService(repo.NewUserRepo(db), jwter, log)
	qnaSvc := service.NewQnaService(repo.NewQnaRepo(db), aiClient, c, log)

	r := router.NewAPIEngine(router.Deps{
		Log:          log,
		JWTer:        jwter,
		Auth:         handler.NewAuthHandler(authSvc),
		Qna:          handler.NewQnaHandler(qnaSvc),
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.App.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:   time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:    time.Duration(cfg.App.HTTP.IdleTimeoutSec) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info("qbot api starting",
		zap.String("addr", addr),
		zap.String("health", "/questions/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("qbot api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("qbot api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
