package domain

import "errors"

// 领域错误：传输层统一映射为 HTTP 状态码
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrUpstream           = errors.New("upstream unavailable")
	ErrPersistence        = errors.New("persistence failure")
)
