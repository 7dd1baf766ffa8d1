package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// ListRepository defines persistence for user lists.
type ListRepository interface {
	Insert(ctx context.Context, l *domain.List) error
	FindByUser(ctx context.Context, userID int64) ([]domain.List, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Owner returns the user id of the list, or domain.ErrNotFound.
	Owner(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ListEntryRepository defines persistence for list membership, keyed by the
// (list_id, anime_id) pair.
type ListEntryRepository interface {
	Insert(ctx context.Context, e *domain.ListEntry) error
	// FindByList returns the entries of a list joined with their catalog data.
	FindByList(ctx context.Context, listID int64) ([]domain.ListEntryView, error)
	Exists(ctx context.Context, listID, animeID int64) (bool, error)
	UpdateStatus(ctx context.Context, e *domain.ListEntry) error
	Delete(ctx context.Context, listID, animeID int64) error
}
