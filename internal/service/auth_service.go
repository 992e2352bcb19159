package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"qbot-api/internal/core/auth"
	"qbot-api/internal/domain"
	"qbot-api/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		// bcrypt 拒绝超过 72 字节的口令
		return nil, fmt.Errorf("%w: password too long", domain.ErrInvalidInput)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	// 预检和唯一索引之间的并发窗口由索引兜底，仓储同样报 ErrEmailTaken
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login 未知邮箱和密码错误返回同一个错误，防止枚举用户
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwter.Issue(u.ID)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		return nil, "", time.Time{}, err
	}
	return u, token, expiresAt, nil
}
