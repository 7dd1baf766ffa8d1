package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

type listService struct {
	lists    ports.ListRepository
	entries  ports.ListEntryRepository
	accounts ports.AccountAuthorizer
}

// NewListService returns a ListService. Lists belong to the account that
// owns them; accounts decides who may act for that account.
func NewListService(lists ports.ListRepository, entries ports.ListEntryRepository, accounts ports.AccountAuthorizer) ports.ListService {
	return &listService{lists: lists, entries: entries, accounts: accounts}
}

func (s *listService) UserLists(ctx context.Context, userID int64) ([]domain.List, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user id must be positive: %w", domain.ErrInvalidInput)
	}
	return s.lists.FindByUser(ctx, userID)
}

func (s *listService) Entries(ctx context.Context, listID int64) ([]domain.ListEntryView, error) {
	if listID <= 0 {
		return nil, fmt.Errorf("list id must be positive: %w", domain.ErrInvalidInput)
	}
	ok, err := s.lists.Exists(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("entries of list %d: %w", listID, err)
	}
	if !ok {
		return nil, fmt.Errorf("list %d: %w", listID, domain.ErrNotFound)
	}
	return s.entries.FindByList(ctx, listID)
}

func (s *listService) AuthorizeOwner(ctx context.Context, id *domain.Identity, userID int64) error {
	return s.accounts.AuthorizeAccount(ctx, id, userID)
}

func (s *listService) AuthorizeList(ctx context.Context, id *domain.Identity, listID int64) error {
	if !id.Authenticated() {
		return domain.ErrUnauthorized
	}
	if id.IsAdmin() {
		return nil
	}
	owner, err := s.lists.Owner(ctx, listID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("authorize list %d: %w", listID, err)
	}
	return s.accounts.AuthorizeAccount(ctx, id, owner)
}
