package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// AnimeRepository defines persistence for the anime catalog.
type AnimeRepository interface {
	Insert(ctx context.Context, a *domain.Anime) error
	FindAll(ctx context.Context) ([]domain.Anime, error)
	FindByID(ctx context.Context, id int64) (*domain.Anime, error)
	// SearchByPrefix returns titles starting with prefix, case-insensitively.
	SearchByPrefix(ctx context.Context, prefix string) ([]domain.Anime, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, a *domain.Anime) error
	Delete(ctx context.Context, id int64) error
}

// CatalogSnapshot is one cache read. Generation is the invalidation epoch
// the read observed, hit or miss.
type CatalogSnapshot struct {
	Items      []domain.Anime
	Hit        bool
	Generation int64
}

// CatalogCache keeps a read-through copy of the full catalog.
type CatalogCache interface {
	GetAll(ctx context.Context) (CatalogSnapshot, error)
	// SetAll stores items only while the cache is still at generation. A
	// catalog loaded before an Invalidate is never written back.
	SetAll(ctx context.Context, generation int64, items []domain.Anime) error
	// Invalidate drops the cached catalog and starts a new generation.
	Invalidate(ctx context.Context) error
}
