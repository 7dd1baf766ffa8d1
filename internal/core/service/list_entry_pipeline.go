package service

import (
	"context"
	"errors"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	msgEntryAdded   = "Anime added to the list."
	msgEntryUpdated = "Status updated successfully."
	msgEntryRemoved = "Anime removed successfully."
	msgEntryMissing = "List entry does not exist."
	msgEntryExists  = "Anime is already in the list."
)

// ListEntryPipelines builds list membership pipelines keyed by
// (list_id, anime_id).
type ListEntryPipelines struct {
	repo ports.ListEntryRepository
}

func NewListEntryPipelines(repo ports.ListEntryRepository) *ListEntryPipelines {
	return &ListEntryPipelines{repo: repo}
}

func (f *ListEntryPipelines) New(kind domain.OperationKind) ports.Pipeline[ports.ListEntryInput] {
	return &listEntryPipeline{operation: operation{kind: kind}, deps: f}
}

type listEntryPipeline struct {
	operation
	deps  *ListEntryPipelines
	entry domain.ListEntry
}

func (p *listEntryPipeline) Bind(in ports.ListEntryInput) domain.Result {
	p.reset()
	p.entry = domain.ListEntry{}

	if in.ListID <= 0 || in.AnimeID <= 0 {
		return domain.Fail(domain.ErrInvalidInput, "List id and anime id are required.")
	}
	status := domain.WatchStatus(in.Status)

	switch p.kind {
	case domain.OperationAdd:
		if status == "" {
			status = domain.StatusPlanToWatch
		}
		if !status.Valid() {
			return domain.Fail(domain.ErrInvalidInput, "Invalid watch status.")
		}
	case domain.OperationEdit:
		if !status.Valid() {
			return domain.Fail(domain.ErrInvalidInput, "Invalid watch status.")
		}
	case domain.OperationDelete:
		status = ""
	default:
		return p.unsupported()
	}

	p.entry = domain.ListEntry{ListID: in.ListID, AnimeID: in.AnimeID, Status: status}
	p.bound = true
	return domain.OK("", nil)
}

func (p *listEntryPipeline) Validate(ctx context.Context) domain.Result {
	return p.checkExists(ctx, func(ctx context.Context) (bool, error) {
		return p.deps.repo.Exists(ctx, p.entry.ListID, p.entry.AnimeID)
	}, msgEntryMissing)
}

func (p *listEntryPipeline) Save(ctx context.Context) domain.Result {
	if r, ok := p.ready(); !ok {
		return r
	}

	var err error
	msg := msgEntryAdded
	switch p.kind {
	case domain.OperationAdd:
		err = p.deps.repo.Insert(ctx, &p.entry)
	case domain.OperationEdit:
		err = p.deps.repo.UpdateStatus(ctx, &p.entry)
		msg = msgEntryUpdated
	case domain.OperationDelete:
		err = p.deps.repo.Delete(ctx, p.entry.ListID, p.entry.AnimeID)
		msg = msgEntryRemoved
	default:
		return p.unsupported()
	}

	if errors.Is(err, domain.ErrNotFound) {
		return domain.Fail(err, msgEntryMissing)
	}
	if err != nil {
		return storageFailure(err, msgEntryExists)
	}
	if p.kind == domain.OperationDelete {
		return domain.OK(msg, nil)
	}
	return domain.OK(msg, p.entry)
}
