package service

import (
	"context"
	"errors"
	"strings"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	msgListCreated = "List created successfully."
	msgListRemoved = "List removed successfully."
	msgListMissing = "List does not exist."
)

// ListPipelines builds list pipelines. Lists support Add and Delete.
type ListPipelines struct {
	repo ports.ListRepository
}

func NewListPipelines(repo ports.ListRepository) *ListPipelines {
	return &ListPipelines{repo: repo}
}

func (f *ListPipelines) New(kind domain.OperationKind) ports.Pipeline[ports.ListInput] {
	return &listPipeline{operation: operation{kind: kind}, deps: f}
}

type listPipeline struct {
	operation
	deps *ListPipelines
	list domain.List
}

func (p *listPipeline) Bind(in ports.ListInput) domain.Result {
	p.reset()
	p.list = domain.List{}

	switch p.kind {
	case domain.OperationAdd:
		name := strings.TrimSpace(in.Name)
		if in.UserID <= 0 || name == "" {
			return domain.Fail(domain.ErrInvalidInput, "User id and list name are required.")
		}
		p.list = domain.List{UserID: in.UserID, Name: name}
	case domain.OperationDelete:
		if in.ID <= 0 {
			return domain.Fail(domain.ErrInvalidInput, "List id is required.")
		}
		p.list = domain.List{ID: in.ID}
	default:
		return p.unsupported()
	}

	p.bound = true
	return domain.OK("", nil)
}

func (p *listPipeline) Validate(ctx context.Context) domain.Result {
	return p.checkExists(ctx, func(ctx context.Context) (bool, error) {
		return p.deps.repo.Exists(ctx, p.list.ID)
	}, msgListMissing)
}

func (p *listPipeline) Save(ctx context.Context) domain.Result {
	if r, ok := p.ready(); !ok {
		return r
	}

	switch p.kind {
	case domain.OperationAdd:
		if err := p.deps.repo.Insert(ctx, &p.list); err != nil {
			return storageFailure(err, "")
		}
		return domain.OK(msgListCreated, p.list)
	case domain.OperationDelete:
		if err := p.deps.repo.Delete(ctx, p.list.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Fail(err, msgListMissing)
			}
			return storageFailure(err, "")
		}
		return domain.OK(msgListRemoved, nil)
	}
	return p.unsupported()
}
