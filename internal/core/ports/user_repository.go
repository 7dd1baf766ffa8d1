package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// UserRepository defines persistence for accounts. Lookups of absent records
// return domain.ErrNotFound; unique email violations return domain.ErrDuplicate.
type UserRepository interface {
	// Insert stores u and assigns its ID.
	Insert(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}
