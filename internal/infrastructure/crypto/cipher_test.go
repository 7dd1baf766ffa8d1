package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

func decrypt(t *testing.T, key, iv, encoded string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Zero(t, len(raw)%aes.BlockSize)

	block, err := aes.NewCipher([]byte(key))
	require.NoError(t, err)
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, []byte(iv)).CryptBlocks(out, raw)

	pad := int(out[len(out)-1])
	require.True(t, pad > 0 && pad <= aes.BlockSize)
	return string(out[:len(out)-pad])
}

func TestCipher_Encrypt(t *testing.T) {
	c, err := NewCipher(DefaultKey, DefaultIV)
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		a, err := c.Encrypt("hunter2")
		require.NoError(t, err)
		b, err := c.Encrypt("hunter2")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("round trips through CBC decrypt", func(t *testing.T) {
		for _, pt := range []string{"a", "pw1", "exactly16bytes!!", "a much longer password with spaces"} {
			enc, err := c.Encrypt(pt)
			require.NoError(t, err)
			assert.Equal(t, pt, decrypt(t, DefaultKey, DefaultIV, enc))
		}
	})

	t.Run("full block gets a full padding block", func(t *testing.T) {
		enc, err := c.Encrypt("exactly16bytes!!")
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(enc)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("different plaintexts differ", func(t *testing.T) {
		a, _ := c.Encrypt("pw1")
		b, _ := c.Encrypt("pw2")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty plaintext is rejected", func(t *testing.T) {
		_, err := c.Encrypt("")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestNewCipher_RejectsBadKeyMaterial(t *testing.T) {
	_, err := NewCipher("short", DefaultIV)
	assert.Error(t, err)

	_, err = NewCipher(DefaultKey, "short")
	assert.Error(t, err)
}
