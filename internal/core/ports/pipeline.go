package ports

import (
	"context"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// Pipeline is the validate-then-mutate contract shared by every resource.
// A pipeline instance serves one request: Bind, then Validate, then Save only
// if Validate reported no error.
type Pipeline[D any] interface {
	// Bind converts the input into the resource entity and clears any result
	// left by an earlier run.
	Bind(in D) domain.Result
	// Validate checks the preconditions of the bound operation against storage.
	Validate(ctx context.Context) domain.Result
	// Save commits the bound operation.
	Save(ctx context.Context) domain.Result
}

// PipelineFactory creates a fresh pipeline for one operation kind.
type PipelineFactory[D any] interface {
	New(kind domain.OperationKind) Pipeline[D]
}

// UserInput is the account payload. ID is required for Edit and Delete.
type UserInput struct {
	ID        int64
	Email     string
	Password  string
	FirstName string
	LastName  string
	Age       int
}

// AnimeInput is the catalog payload. ID is required for Edit and Delete.
type AnimeInput struct {
	ID          int64
	Title       string
	Seasons     int
	Episodes    int
	ReleaseYear int
}

// ListInput is the list payload. ID is required for Delete.
type ListInput struct {
	ID     int64
	UserID int64
	Name   string
}

// ListEntryInput is the membership payload.
type ListEntryInput struct {
	ListID  int64
	AnimeID int64
	Status  string
}
