package auth

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// PooledHasher bounds the number of concurrent hash and verify operations
// running against the wrapped hasher. Callers beyond the limit wait for a slot.
type PooledHasher struct {
	hasher PasswordHasher
	sem    *semaphore.Weighted
}

var _ PasswordHasher = (*PooledHasher)(nil)

// NewPooledHasher wraps hasher with a pool of the given size. A size <= 0
// uses runtime.NumCPU().
func NewPooledHasher(hasher PasswordHasher, size int) *PooledHasher {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &PooledHasher{
		hasher: hasher,
		sem:    semaphore.NewWeighted(int64(size)),
	}
}

func (p *PooledHasher) HashPassword(password string) (string, error) {
	if err := p.sem.Acquire(context.Background(), 1); err != nil {
		return "", internalError(err, "hashing pool unavailable")
	}
	defer p.sem.Release(1)

	return p.hasher.HashPassword(password)
}

func (p *PooledHasher) VerifyPassword(password, hash string) bool {
	if err := p.sem.Acquire(context.Background(), 1); err != nil {
		return false
	}
	defer p.sem.Release(1)

	return p.hasher.VerifyPassword(password, hash)
}
