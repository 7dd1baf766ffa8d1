// Package crypto holds the credential transforms: the legacy deterministic
// AES cipher and the password hashers built on top of it.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// Legacy key material. Kept only so values written by the previous system
// keep verifying; override through configuration.
const (
	DefaultKey = "0123456789ABCDEF0123456789ABCDEF"
	DefaultIV  = "0123456789ABCDEF"
)

// Cipher is AES-256-CBC with PKCS7 padding under a fixed key and IV.
// Equal plaintexts always produce equal ciphertexts, which is what lets a
// login compare a freshly encrypted password with the stored value. The same
// property leaks password equality across records, so new passwords are
// hashed with bcrypt instead (see BcryptHasher).
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// NewCipher builds a Cipher from a 32-byte key and a 16-byte IV.
func NewCipher(key, iv string) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("cipher key must be 32 bytes, got %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("cipher iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return &Cipher{block: block, iv: []byte(iv)}, nil
}

// Encrypt returns the base64 ciphertext of plaintext. An empty plaintext is
// treated as absent and rejected with domain.ErrInvalidInput.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("encrypt: plaintext is required: %w", domain.ErrInvalidInput)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}
