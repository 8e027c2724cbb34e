// File: internal/service/password.go
package service

import (
	"context"

	"skincare/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// PasswordHasher turns a plaintext password into its stored form.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
}

// PooledHasher runs bcrypt on a worker pool so sign-up bursts cannot take every CPU.
type PooledHasher struct {
	pool worker.Pool
	hash func(string) (string, error)
}

func NewPooledHasher(pool worker.Pool) *PooledHasher {
	return &PooledHasher{pool: pool, hash: HashPassword}
}

type hashResult struct {
	hash string
	err  error
}

func (h *PooledHasher) Hash(ctx context.Context, password string) (string, error) {
	res := make(chan hashResult, 1)
	if err := h.pool.Submit(ctx, func() {
		hash, err := h.hash(password)
		res <- hashResult{hash: hash, err: err}
	}); err != nil {
		return "", err
	}

	select {
	case r := <-res:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
