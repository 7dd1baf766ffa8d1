package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	msgUserAdded   = "User Added"
	msgUserUpdated = "User updated successfully."
	msgUserDeleted = "User Deleted Successfully"
	msgUserMissing = "User does not exist."
	msgUserExists  = "User already exists."
)

// UserPipelines builds account pipelines: sign-up, profile edit and removal.
type UserPipelines struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserPipelines(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *UserPipelines {
	return &UserPipelines{repo: repo, hasher: hasher, tokens: tokens, log: log, now: time.Now}
}

func (f *UserPipelines) New(kind domain.OperationKind) ports.Pipeline[ports.UserInput] {
	return &userPipeline{operation: operation{kind: kind}, deps: f}
}

type userPipeline struct {
	operation
	deps *UserPipelines
	user domain.User
}

func (p *userPipeline) Bind(in ports.UserInput) domain.Result {
	p.reset()
	p.user = domain.User{}

	switch p.kind {
	case domain.OperationAdd:
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if email == "" || in.Password == "" {
			return domain.Fail(domain.ErrInvalidInput, "Email and password are required.")
		}
		hash, err := p.deps.hasher.Hash(in.Password)
		if err != nil {
			return domain.Fail(err, "")
		}
		now := p.deps.now().UTC()
		p.user = domain.User{
			Email:        email,
			PasswordHash: hash,
			Role:         domain.DefaultRole,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Age:          in.Age,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	case domain.OperationEdit:
		if in.ID <= 0 {
			return domain.Fail(domain.ErrInvalidInput, "User id is required.")
		}
		p.user = domain.User{ID: in.ID, FirstName: in.FirstName, LastName: in.LastName, Age: in.Age}
	case domain.OperationDelete:
		if in.ID <= 0 {
			return domain.Fail(domain.ErrInvalidInput, "User id is required.")
		}
		p.user = domain.User{ID: in.ID}
	default:
		return p.unsupported()
	}

	p.bound = true
	return domain.OK("", nil)
}

func (p *userPipeline) Validate(ctx context.Context) domain.Result {
	return p.checkExists(ctx, func(ctx context.Context) (bool, error) {
		return p.deps.repo.Exists(ctx, p.user.ID)
	}, msgUserMissing)
}

func (p *userPipeline) Save(ctx context.Context) domain.Result {
	if r, ok := p.ready(); !ok {
		return r
	}

	switch p.kind {
	case domain.OperationAdd:
		if err := p.deps.repo.Insert(ctx, &p.user); err != nil {
			return storageFailure(err, msgUserExists)
		}
		tok, err := p.deps.tokens.Issue(p.user.Email, p.user.Role)
		if err != nil {
			p.deps.log.Error().Err(err).Int64("user_id", p.user.ID).Msg("issue token after sign-up")
			return domain.Fail(err, "")
		}
		return domain.OK(msgUserAdded, domain.TokenGrant{Token: tok})

	case domain.OperationEdit:
		stored, err := p.deps.repo.FindByID(ctx, p.user.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(err, msgUserMissing)
		}
		if err != nil {
			return storageFailure(err, "")
		}
		stored.Merge(p.user)
		stored.UpdatedAt = p.deps.now().UTC()
		if err := p.deps.repo.Update(ctx, stored); err != nil {
			return storageFailure(err, "")
		}
		return domain.OK(msgUserUpdated, stored)

	case domain.OperationDelete:
		if err := p.deps.repo.Delete(ctx, p.user.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Fail(err, msgUserMissing)
			}
			return storageFailure(err, "")
		}
		return domain.OK(msgUserDeleted, nil)
	}
	return p.unsupported()
}
