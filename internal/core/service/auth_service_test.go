package service

import (
	"context"
	"errors"
	"testing"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, hasher ports.PasswordHasher, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Role: role}
	if err := repo.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	hasher := bcryptHasher(t)
	codec := testCodec(t)
	seedUser(t, repo, hasher, "carol@example.com", "s3cret", domain.RoleAdmin)

	svc := NewAuthService(repo, hasher, codec, nil, nopLogger())
	r := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if r.IsError {
		t.Fatalf("login failed: %s", r.Message)
	}

	grant, ok := r.Data.(domain.TokenGrant)
	if !ok || grant.Token == "" {
		t.Fatalf("expected token grant, got %#v", r.Data)
	}
	id, err := codec.Verify(grant.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Email != "carol@example.com" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	hasher := legacyHasher(t)
	seedUser(t, repo, hasher, "a@b.com", "pw1", domain.RoleUser)

	r := NewAuthService(repo, hasher, testCodec(t), nil, nopLogger()).Login(context.Background(), "a@b.com", "wrong")
	if !r.IsError || r.Message != "Invalid Email or Password" {
		t.Fatalf("expected invalid login envelope, got %+v", r)
	}
	if r.Data != nil {
		t.Fatalf("no token may be issued, got %#v", r.Data)
	}
	if !errors.Is(r.Err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", r.Err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	r := NewAuthService(newStubUserRepo(), bcryptHasher(t), testCodec(t), nil, nopLogger()).Login(context.Background(), "ghost@x.io", "pw")
	if !r.IsError || r.Message != msgInvalidLogin {
		t.Fatalf("expected invalid login envelope, got %+v", r)
	}
}

func TestAuthService_Login_StorageFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errBoom

	r := NewAuthService(repo, bcryptHasher(t), testCodec(t), nil, nopLogger()).Login(context.Background(), "a@b.com", "pw")
	if !r.IsError || !errors.Is(r.Err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %+v", r)
	}
}

func TestAuthService_Login_LegacyCredentialIsQueuedForRehash(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, legacyHasher(t), "a@b.com", "pw1", domain.RoleUser)
	queue := &stubRehashQueue{}

	svc := NewAuthService(repo, bcryptHasher(t), testCodec(t), queue, nopLogger())
	if r := svc.Login(context.Background(), "a@b.com", "pw1"); r.IsError {
		t.Fatalf("legacy login failed: %s", r.Message)
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("expected 1 rehash job, got %d", len(queue.jobs))
	}
	job := queue.jobs[0]
	if job.UserID != u.ID || job.Password != "pw1" {
		t.Fatalf("unexpected job: %+v", job)
	}

	m := NewCredentialMigrator(repo, bcryptHasher(t), nopLogger())
	if err := m.Rehash(context.Background(), job); err != nil {
		t.Fatalf("rehash: %v", err)
	}

	queue.jobs = nil
	if r := svc.Login(context.Background(), "a@b.com", "pw1"); r.IsError {
		t.Fatalf("login after rehash failed: %s", r.Message)
	}
	if len(queue.jobs) != 0 {
		t.Fatalf("migrated credential must not be queued again")
	}
}

func TestAuthService_AuthorizeAccount(t *testing.T) {
	repo := newStubUserRepo()
	hasher := legacyHasher(t)
	alice := seedUser(t, repo, hasher, "alice@x.io", "pw", domain.RoleUser)
	bob := seedUser(t, repo, hasher, "bob@x.io", "pw", domain.RoleUser)
	svc := NewAuthService(repo, hasher, testCodec(t), nil, nopLogger())
	ctx := context.Background()

	aliceID := &domain.Identity{Email: alice.Email, Role: domain.RoleUser}
	if err := svc.AuthorizeAccount(ctx, aliceID, alice.ID); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
	if err := svc.AuthorizeAccount(ctx, aliceID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	admin := &domain.Identity{Email: "root@x.io", Role: domain.RoleAdmin}
	if err := svc.AuthorizeAccount(ctx, admin, bob.ID); err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}

	if err := svc.AuthorizeAccount(ctx, nil, bob.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
