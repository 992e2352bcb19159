package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"qbot-api/internal/domain"
)

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTer 签发/校验 HS256 身份令牌。换签名密钥会使已签发令牌全部失效。
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time // 为空则 time.Now，测试注入时钟用
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue 返回令牌和绝对过期时间
func (j *JWTer) Issue(uid string) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.TTL)
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// Verify 签名错 / 结构坏 / 已过期，一律 domain.ErrInvalidToken
func (j *JWTer) Verify(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithTimeFunc(j.now))

	if err != nil {
		return "", domain.ErrInvalidToken
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == "" {
		return "", domain.ErrInvalidToken
	}
	return c.UID, nil
}
