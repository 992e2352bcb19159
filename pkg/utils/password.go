package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 加盐哈希；同一明文每次输出不同。
// bcrypt 对超过 72 字节的明文直接报错，不会截断。
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 哈希串非法时返回 false，不报错
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
