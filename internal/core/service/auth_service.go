package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	msgInvalidLogin = "Invalid Email or Password"
	msgLoginOK      = "Login successful."
)

// authService implements sign-in and account ownership checks.
type authService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	rehash ports.RehashQueue
	log    zerolog.Logger
}

// NewAuthService returns an AuthService. rehash may be nil, in which case
// credentials flagged for migration are left as they are.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	rehash ports.RehashQueue,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens, rehash: rehash, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) domain.Result {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.Fail(domain.ErrInvalidCredentials, msgInvalidLogin)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Fail(domain.ErrInvalidCredentials, msgInvalidLogin)
	}
	if err != nil {
		return storageFailure(err, "")
	}

	match, rehash, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("verify stored credential")
		return domain.Fail(fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err), msgInvalidLogin)
	}
	if !match {
		return domain.Fail(domain.ErrInvalidCredentials, msgInvalidLogin)
	}

	tok, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return domain.Fail(err, "")
	}

	if rehash && s.rehash != nil {
		s.rehash.Enqueue(ports.RehashJob{UserID: user.ID, Email: user.Email, Password: password})
	}

	return domain.OK(msgLoginOK, domain.TokenGrant{Token: tok})
}

func (s *authService) AuthorizeAccount(ctx context.Context, id *domain.Identity, userID int64) error {
	if !id.Authenticated() {
		return domain.ErrUnauthorized
	}
	if id.IsAdmin() {
		return nil
	}

	user, err := s.users.FindByEmail(ctx, id.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("authorize account: %w", err)
	}
	if user.ID != userID {
		return domain.ErrForbidden
	}
	return nil
}
