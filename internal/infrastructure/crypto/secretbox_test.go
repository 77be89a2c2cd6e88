package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretBox(t *testing.T) {
	t.Run("creates box from master key", func(t *testing.T) {
		box, err := NewSecretBox("a-reasonably-long-master-key")
		require.NoError(t, err)
		assert.NotNil(t, box)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := NewSecretBox("")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestSecretBox_RoundTrip(t *testing.T) {
	box, err := NewSecretBox("a-reasonably-long-master-key")
	require.NoError(t, err)

	for _, plaintext := range []string{"smtp-password", "", "pâté é", "client-id-1234567890"} {
		sealed, err := box.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		opened, err := box.Decrypt(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestSecretBox_NonDeterministic(t *testing.T) {
	box, err := NewSecretBox("a-reasonably-long-master-key")
	require.NoError(t, err)

	first, err := box.Encrypt("same-secret")
	require.NoError(t, err)
	second, err := box.Encrypt("same-secret")
	require.NoError(t, err)

	// A fresh nonce per call means identical plaintexts never collide
	assert.NotEqual(t, first, second)
}

func TestSecretBox_RejectsTamperedCiphertext(t *testing.T) {
	box, err := NewSecretBox("a-reasonably-long-master-key")
	require.NoError(t, err)

	_, err = box.Decrypt("not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidPlaintext)

	_, err = box.Decrypt("dG9vc2hvcnQ=")
	assert.ErrorIs(t, err, ErrInvalidPlaintext)

	sealed, err := box.Encrypt("secret")
	require.NoError(t, err)

	otherBox, err := NewSecretBox("a-different-master-key")
	require.NoError(t, err)
	_, err = otherBox.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrInvalidPlaintext)
}
