// Package seed creates bootstrap accounts from a YAML file. Sign-up always
// yields the user role, so this is how admin accounts come to exist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

type usersFile struct {
	Users []struct {
		Email     string      `yaml:"email"`
		Password  string      `yaml:"password"`
		Role      domain.Role `yaml:"role"`
		FirstName string      `yaml:"first_name"`
		LastName  string      `yaml:"last_name"`
	} `yaml:"users"`
}

type Seeder struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, hasher: hasher, log: log}
}

// SeedFromFile reads path and creates the accounts it lists. A missing file
// is not an error.
func (s *Seeder) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info().Str("path", path).Msg("no seed file, skipping")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return s.Seed(ctx, f)
}

// Seed creates every listed account whose email is not taken yet and returns
// how many were created. Entries without a role become admins.
func (s *Seeder) Seed(ctx context.Context, r io.Reader) (int, error) {
	var uf usersFile
	if err := yaml.NewDecoder(r).Decode(&uf); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for _, u := range uf.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			continue
		}
		role := u.Role
		if role == "" {
			role = domain.RoleAdmin
		}
		if !role.Valid() {
			return created, fmt.Errorf("seed %s: unknown role %q: %w", email, role, domain.ErrInvalidInput)
		}

		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}
		now := time.Now().UTC()
		user := &domain.User{
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Insert(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", email, err)
		}
		created++
		s.log.Info().Str("email", email).Str("role", string(role)).Msg("seeded account")
	}
	return created, nil
}
