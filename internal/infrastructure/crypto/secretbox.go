package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Common errors
var (
	ErrEmptyKey         = errors.New("master key cannot be empty")
	ErrInvalidPlaintext = errors.New("ciphertext is not valid")
)

// hkdfInfo binds derived keys to this use so the same master key
// cannot be reused for another purpose by accident.
const hkdfInfo = "kyber-settings-secrets-v1"

// SecretBox encrypts and decrypts short credential strings with
// AES-256-GCM. The cipher key is derived from the configured master
// key via HKDF, so the master key itself is never used directly.
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox derives a cipher from the master key
func NewSecretBox(masterKey string) (*SecretBox, error) {
	if masterKey == "" {
		return nil, ErrEmptyKey
	}

	kdf := hkdf.New(sha256.New, []byte(masterKey), nil, []byte(hkdfInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &SecretBox{aead: aead}, nil
}

// Encrypt seals a plaintext and returns it base64-encoded with the
// nonce prepended
func (b *SecretBox) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or foreign ciphertexts fail
// authentication and return ErrInvalidPlaintext.
func (b *SecretBox) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidPlaintext
	}

	nonceSize := b.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrInvalidPlaintext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidPlaintext
	}

	return string(plaintext), nil
}
