package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/ports"
)

// CredentialMigrator rewrites stored credentials with the current hasher.
type CredentialMigrator struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewCredentialMigrator(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *CredentialMigrator {
	return &CredentialMigrator{users: users, hasher: hasher, log: log}
}

func (m *CredentialMigrator) Rehash(ctx context.Context, job ports.RehashJob) error {
	hash, err := m.hasher.Hash(job.Password)
	if err != nil {
		return fmt.Errorf("rehash user %d: %w", job.UserID, err)
	}
	if err := m.users.UpdatePasswordHash(ctx, job.UserID, hash); err != nil {
		return fmt.Errorf("rehash user %d: %w", job.UserID, err)
	}
	m.log.Info().Int64("user_id", job.UserID).Msg("credential migrated")
	return nil
}
