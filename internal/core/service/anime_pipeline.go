package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	msgAnimeAdded   = "Anime added successfully."
	msgAnimeUpdated = "Anime updated successfully."
	msgAnimeRemoved = "Anime removed successfully."
	msgAnimeMissing = "Anime does not exist."
)

// AnimePipelines builds catalog pipelines. Every committed mutation drops the
// cached catalog.
type AnimePipelines struct {
	repo  ports.AnimeRepository
	cache ports.CatalogCache
	log   zerolog.Logger
}

// NewAnimePipelines returns catalog pipelines. cache may be nil.
func NewAnimePipelines(repo ports.AnimeRepository, cache ports.CatalogCache, log zerolog.Logger) *AnimePipelines {
	return &AnimePipelines{repo: repo, cache: cache, log: log}
}

func (f *AnimePipelines) New(kind domain.OperationKind) ports.Pipeline[ports.AnimeInput] {
	return &animePipeline{operation: operation{kind: kind}, deps: f}
}

type animePipeline struct {
	operation
	deps  *AnimePipelines
	anime domain.Anime
}

func (p *animePipeline) Bind(in ports.AnimeInput) domain.Result {
	p.reset()
	p.anime = domain.Anime{}

	switch p.kind {
	case domain.OperationAdd:
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return domain.Fail(domain.ErrInvalidInput, "Anime title is required.")
		}
		p.anime = domain.Anime{Title: title, Seasons: in.Seasons, Episodes: in.Episodes, ReleaseYear: in.ReleaseYear}
	case domain.OperationEdit:
		if in.ID <= 0 {
			return domain.Fail(domain.ErrInvalidInput, "Anime id is required.")
		}
		p.anime = domain.Anime{
			ID:          in.ID,
			Title:       strings.TrimSpace(in.Title),
			Seasons:     in.Seasons,
			Episodes:    in.Episodes,
			ReleaseYear: in.ReleaseYear,
		}
	case domain.OperationDelete:
		if in.ID <= 0 {
			return domain.Fail(domain.ErrInvalidInput, "Anime id is required.")
		}
		p.anime = domain.Anime{ID: in.ID}
	default:
		return p.unsupported()
	}

	p.bound = true
	return domain.OK("", nil)
}

func (p *animePipeline) Validate(ctx context.Context) domain.Result {
	return p.checkExists(ctx, func(ctx context.Context) (bool, error) {
		return p.deps.repo.Exists(ctx, p.anime.ID)
	}, msgAnimeMissing)
}

func (p *animePipeline) Save(ctx context.Context) domain.Result {
	if r, ok := p.ready(); !ok {
		return r
	}

	var result domain.Result
	switch p.kind {
	case domain.OperationAdd:
		if err := p.deps.repo.Insert(ctx, &p.anime); err != nil {
			return storageFailure(err, "")
		}
		result = domain.OK(msgAnimeAdded, p.anime)

	case domain.OperationEdit:
		stored, err := p.deps.repo.FindByID(ctx, p.anime.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(err, msgAnimeMissing)
		}
		if err != nil {
			return storageFailure(err, "")
		}
		stored.Merge(p.anime)
		if err := p.deps.repo.Update(ctx, stored); err != nil {
			return storageFailure(err, "")
		}
		result = domain.OK(msgAnimeUpdated, stored)

	case domain.OperationDelete:
		if err := p.deps.repo.Delete(ctx, p.anime.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Fail(err, msgAnimeMissing)
			}
			return storageFailure(err, "")
		}
		result = domain.OK(msgAnimeRemoved, nil)

	default:
		return p.unsupported()
	}

	p.invalidateCatalog(ctx)
	return result
}

// invalidateCatalog drops the cached catalog. A failure only delays
// freshness until the cache TTL, so it is logged and not surfaced.
func (p *animePipeline) invalidateCatalog(ctx context.Context) {
	if p.deps.cache == nil {
		return
	}
	if err := p.deps.cache.Invalidate(ctx); err != nil {
		p.deps.log.Warn().Err(err).Str("kind", p.kind.String()).Msg("catalog cache invalidation failed")
	}
}
