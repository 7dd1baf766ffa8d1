package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// TokenIssuer mints identity tokens.
type TokenIssuer interface {
	Issue(email string, role domain.Role) (string, error)
}

// TokenVerifier checks a token and returns the identity it proves. Errors
// wrap domain.ErrInvalidToken or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// PasswordHasher turns a password into a comparable stored value.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches stored, and whether stored
	// should be replaced by a fresh Hash of password.
	Verify(stored, password string) (match, rehash bool, err error)
}

// RehashJob asks for a stored credential to be replaced with a fresh hash.
type RehashJob struct {
	UserID   int64
	Email    string
	Password string
}

// RehashQueue accepts credential migration jobs.
type RehashQueue interface {
	Enqueue(job RehashJob)
}

// RehashProcessor replaces a stored credential with a fresh hash.
type RehashProcessor interface {
	Rehash(ctx context.Context, job RehashJob) error
}
