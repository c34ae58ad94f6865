package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

// SentinelPassword is stored for accounts created through an external identity
// provider. It is not a bcrypt hash, so no plaintext can ever verify against it.
const SentinelPassword = "null"

// PasswordHasher 使用 bcrypt 对密码进行哈希和校验
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given work factor. Costs outside
// bcrypt's accepted range fall back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash 对去除首尾空白后的明文密码进行哈希处理
func (h *PasswordHasher) Hash(password string) (string, error) {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmed), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify 验证密码是否与存储的哈希值匹配，哈希格式错误时返回 false
func (h *PasswordHasher) Verify(password, hash string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(password))) == nil
}
