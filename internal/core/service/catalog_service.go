package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

type catalogService struct {
	repo  ports.AnimeRepository
	cache ports.CatalogCache
	sheet ports.SheetRenderer
	log   zerolog.Logger
}

// NewCatalogService returns a CatalogService. The full listing is read
// through cache when one is given; cache errors fall back to storage.
func NewCatalogService(repo ports.AnimeRepository, cache ports.CatalogCache, sheet ports.SheetRenderer, log zerolog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, cache: cache, sheet: sheet, log: log}
}

func (s *catalogService) List(ctx context.Context) ([]domain.Anime, error) {
	cacheable := false
	var snap ports.CatalogSnapshot
	if s.cache != nil {
		var err error
		snap, err = s.cache.GetAll(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("catalog cache read failed, reading storage")
		case snap.Hit:
			return snap.Items, nil
		default:
			cacheable = true
		}
	}

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	// Written back only if no mutation invalidated the cache since the read.
	if cacheable {
		if err := s.cache.SetAll(ctx, snap.Generation, items); err != nil {
			s.log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return items, nil
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Anime, error) {
	if id <= 0 {
		return nil, fmt.Errorf("anime id must be positive: %w", domain.ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *catalogService) Search(ctx context.Context, prefix string) ([]domain.Anime, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("search prefix is required: %w", domain.ErrInvalidInput)
	}
	return s.repo.SearchByPrefix(ctx, prefix)
}

func (s *catalogService) Sheet(ctx context.Context) ([]byte, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.sheet.Render(items)
	if err != nil {
		return nil, fmt.Errorf("render catalog sheet: %w", err)
	}
	return out, nil
}
