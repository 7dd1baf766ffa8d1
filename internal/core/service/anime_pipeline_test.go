package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

var frieren = domain.Anime{ID: 7, Title: "Frieren", Seasons: 1, Episodes: 28, ReleaseYear: 2023}

func TestAnimePipeline_Add(t *testing.T) {
	repo := newStubAnimeRepo()
	cache := &stubCatalogCache{cached: true}
	f := NewAnimePipelines(repo, cache, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationAdd), ports.AnimeInput{Title: "Mushishi", Seasons: 2, Episodes: 46, ReleaseYear: 2005})
	if r.IsError || r.Message != msgAnimeAdded {
		t.Fatalf("add failed: %+v", r)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored anime, got %d", len(repo.items))
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}
}

func TestAnimePipeline_AddRequiresTitle(t *testing.T) {
	r := Run(context.Background(), NewAnimePipelines(newStubAnimeRepo(), nil, nopLogger()).New(domain.OperationAdd), ports.AnimeInput{Seasons: 1})
	if !r.IsError || !errors.Is(r.Err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %+v", r)
	}
}

func TestAnimePipeline_EditOnlyOverwritesProvidedFields(t *testing.T) {
	repo := newStubAnimeRepo(frieren)
	f := NewAnimePipelines(repo, nil, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationEdit), ports.AnimeInput{ID: frieren.ID, Title: "Sousou no Frieren"})
	if r.IsError || r.Message != msgAnimeUpdated {
		t.Fatalf("edit failed: %+v", r)
	}

	got := repo.items[frieren.ID]
	want := frieren
	want.Title = "Sousou no Frieren"
	if got != want {
		t.Fatalf("stored = %+v, want %+v", got, want)
	}
}

func TestAnimePipeline_EditMissingNeverSaves(t *testing.T) {
	repo := newStubAnimeRepo(frieren)
	cache := &stubCatalogCache{}
	f := NewAnimePipelines(repo, cache, nopLogger())

	p := f.New(domain.OperationEdit)
	if r := p.Bind(ports.AnimeInput{ID: 999, Title: "Ghost"}); r.IsError {
		t.Fatalf("bind failed: %+v", r)
	}
	r := p.Validate(context.Background())
	if !r.IsError || !strings.Contains(r.Message, "does not exist") {
		t.Fatalf("expected missing envelope, got %+v", r)
	}

	r = Run(context.Background(), f.New(domain.OperationEdit), ports.AnimeInput{ID: 999, Title: "Ghost"})
	if !r.IsError || r.Message != msgAnimeMissing {
		t.Fatalf("expected missing envelope, got %+v", r)
	}
	if repo.updates != 0 {
		t.Fatalf("save must not run after failed validate, got %d updates", repo.updates)
	}
	if cache.invalidated != 0 {
		t.Fatalf("cache must not be touched on failure")
	}
}

func TestAnimePipeline_ValidateIsRepeatable(t *testing.T) {
	p := NewAnimePipelines(newStubAnimeRepo(frieren), nil, nopLogger()).New(domain.OperationDelete)
	p.Bind(ports.AnimeInput{ID: frieren.ID})

	first := p.Validate(context.Background())
	second := p.Validate(context.Background())
	if first.IsError || second.IsError {
		t.Fatalf("validate failed: %+v / %+v", first, second)
	}
}

func TestAnimePipeline_Delete(t *testing.T) {
	repo := newStubAnimeRepo(frieren)
	cache := &stubCatalogCache{}
	f := NewAnimePipelines(repo, cache, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationDelete), ports.AnimeInput{ID: frieren.ID})
	if r.IsError || r.Message != msgAnimeRemoved {
		t.Fatalf("delete failed: %+v", r)
	}
	if _, ok := repo.items[frieren.ID]; ok {
		t.Fatalf("anime still stored")
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}
}

func TestAnimePipeline_DeleteListedAnimeIsRejected(t *testing.T) {
	repo := newStubAnimeRepo(frieren)
	repo.listed = func(id int64) bool { return id == frieren.ID }
	cache := &stubCatalogCache{}
	f := NewAnimePipelines(repo, cache, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationDelete), ports.AnimeInput{ID: frieren.ID})
	if !r.IsError || !errors.Is(r.Err, domain.ErrReferenceViolation) {
		t.Fatalf("expected reference violation envelope, got %+v", r)
	}
	if r.Message != "reference violation: anime 7 is still in a list" {
		t.Fatalf("message = %q", r.Message)
	}
	if _, ok := repo.items[frieren.ID]; !ok {
		t.Fatalf("listed anime was removed")
	}
	if cache.invalidated != 0 {
		t.Fatalf("failed delete must not invalidate the catalog")
	}
}

func TestAnimePipeline_CacheFailureDoesNotFailSave(t *testing.T) {
	cache := &stubCatalogCache{err: errBoom}
	f := NewAnimePipelines(newStubAnimeRepo(), cache, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationAdd), ports.AnimeInput{Title: "Mushishi"})
	if r.IsError {
		t.Fatalf("add should succeed despite cache error: %+v", r)
	}
}

func TestAnimePipeline_StorageFailure(t *testing.T) {
	repo := newStubAnimeRepo()
	repo.err = errBoom
	f := NewAnimePipelines(repo, nil, nopLogger())

	r := Run(context.Background(), f.New(domain.OperationAdd), ports.AnimeInput{Title: "Mushishi"})
	if !r.IsError || r.Message != errBoom.Error() {
		t.Fatalf("expected storage failure envelope, got %+v", r)
	}
}
