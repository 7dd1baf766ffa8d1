package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// AccountAuthorizer decides whether an identity may act for a user account.
type AccountAuthorizer interface {
	// AuthorizeAccount returns domain.ErrForbidden when id may not act on userID.
	AuthorizeAccount(ctx context.Context, id *domain.Identity, userID int64) error
}

// AuthService covers the credential flows that are not pipelines.
type AuthService interface {
	// Login returns an envelope whose data carries a token on success.
	Login(ctx context.Context, email, password string) domain.Result
	AccountAuthorizer
}

// CatalogService covers catalog reads.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Anime, error)
	Get(ctx context.Context, id int64) (*domain.Anime, error)
	Search(ctx context.Context, prefix string) ([]domain.Anime, error)
	// Sheet renders the catalog as an xlsx workbook.
	Sheet(ctx context.Context) ([]byte, error)
}

// SheetRenderer renders catalog entries as a spreadsheet document.
type SheetRenderer interface {
	Render(items []domain.Anime) ([]byte, error)
}

// ListService covers list reads and list ownership.
type ListService interface {
	UserLists(ctx context.Context, userID int64) ([]domain.List, error)
	Entries(ctx context.Context, listID int64) ([]domain.ListEntryView, error)
	// AuthorizeOwner returns domain.ErrForbidden when id may not manage the
	// lists of userID.
	AuthorizeOwner(ctx context.Context, id *domain.Identity, userID int64) error
	// AuthorizeList applies AuthorizeOwner to the owner of listID. A missing
	// list passes so the operation itself can report it.
	AuthorizeList(ctx context.Context, id *domain.Identity, listID int64) error
}
