package crypto

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// Password storage schemes accepted by NewPasswordHasher.
const (
	SchemeBcrypt    = "bcrypt"
	SchemeLegacyAES = "legacy-aes"
)

// NewPasswordHasher returns the hasher for scheme. Both schemes need the
// legacy cipher: bcrypt uses it to recognise values awaiting migration.
func NewPasswordHasher(scheme string, cost int, legacy *Cipher) (ports.PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeBcrypt:
		return NewBcryptHasher(cost, legacy), nil
	case SchemeLegacyAES:
		if legacy == nil {
			return nil, errors.New("legacy-aes scheme requires a cipher")
		}
		return &LegacyHasher{cipher: legacy}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// BcryptHasher stores salted bcrypt digests. Values written by the legacy
// cipher still verify and are flagged for rehash.
type BcryptHasher struct {
	cost   int
	legacy *Cipher
}

func NewBcryptHasher(cost int, legacy *Cipher) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost, legacy: legacy}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("hash: password is required: %w", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(stored, password string) (bool, bool, error) {
	if stored == "" || password == "" {
		return false, false, nil
	}

	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, false, nil
		}
		if err != nil {
			return false, false, fmt.Errorf("verify: %w", err)
		}
		cost, err := bcrypt.Cost([]byte(stored))
		return true, err == nil && cost < h.cost, nil
	}

	if h.legacy == nil {
		return false, false, nil
	}
	match, err := compareLegacy(h.legacy, stored, password)
	if err != nil || !match {
		return false, false, err
	}
	return true, true, nil
}

// LegacyHasher stores the deterministic cipher value, byte-compatible with
// databases written by the previous system.
type LegacyHasher struct {
	cipher *Cipher
}

func (h *LegacyHasher) Hash(password string) (string, error) {
	return h.cipher.Encrypt(password)
}

func (h *LegacyHasher) Verify(stored, password string) (bool, bool, error) {
	if stored == "" || password == "" {
		return false, false, nil
	}
	match, err := compareLegacy(h.cipher, stored, password)
	return match, false, err
}

func compareLegacy(c *Cipher, stored, password string) (bool, error) {
	enc, err := c.Encrypt(password)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(enc), []byte(stored)) == 1, nil
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}
