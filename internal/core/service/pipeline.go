package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// Run drives p through bind, validate and save, stopping at the first stage
// that reports an error. Save is never reached after a failed validate.
func Run[D any](ctx context.Context, p ports.Pipeline[D], in D) domain.Result {
	if r := p.Bind(in); r.IsError {
		return r
	}
	if r := p.Validate(ctx); r.IsError {
		return r
	}
	return p.Save(ctx)
}

// operation carries the state every resource pipeline shares.
type operation struct {
	kind  domain.OperationKind
	bound bool
}

func (o *operation) reset() {
	o.bound = false
}

// ready guards validate and save against being called before a bind.
func (o *operation) ready() (domain.Result, bool) {
	if !o.bound {
		return domain.Fail(domain.ErrInvalidInput, "Nothing to process."), false
	}
	return domain.Result{}, true
}

func (o *operation) unsupported() domain.Result {
	return domain.Fail(domain.ErrInvalidInput, fmt.Sprintf("Operation %s is not supported.", o.kind))
}

// checkExists runs exists for Edit and Delete and turns a miss into missing.
// Add has nothing to check.
func (o *operation) checkExists(ctx context.Context, exists func(context.Context) (bool, error), missing string) domain.Result {
	if r, ok := o.ready(); !ok {
		return r
	}
	if !o.kind.TargetsExisting() {
		return domain.OK("", nil)
	}

	found, err := exists(ctx)
	if err != nil {
		return storageFailure(err, "")
	}
	if !found {
		return domain.Fail(domain.ErrNotFound, missing)
	}
	return domain.OK("", nil)
}

// storageFailure converts a repository error into an error envelope. The
// message is the error text unless duplicate is given for unique violations.
func storageFailure(err error, duplicate string) domain.Result {
	if errors.Is(err, domain.ErrDuplicate) && duplicate != "" {
		return domain.Fail(err, duplicate)
	}
	msg := err.Error()
	if !errors.Is(err, domain.ErrStorageFailure) && !errors.Is(err, domain.ErrDuplicate) && !errors.Is(err, domain.ErrNotFound) {
		err = fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	return domain.Fail(err, msg)
}
