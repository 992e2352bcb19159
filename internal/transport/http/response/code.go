package response

import (
	"errors"
	"net/http"

	"qbot-api/internal/domain"
)

// StatusOf 域错误 → HTTP 状态码（只在边界做这层翻译）
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf 对外文案固定为哨兵错误文本，不外泄底层错误串
func MessageOf(err error) string {
	for _, sentinel := range []error{
		domain.ErrInvalidInput,
		domain.ErrEmailTaken,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrNotFound,
		domain.ErrUpstream,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}
