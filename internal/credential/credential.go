// Package credential resolves a user's stored, possibly-absent encrypted API
// key into a usable secret. Keys at rest are protected with AES-256-GCM.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecrypt is returned when a stored key cannot be decrypted (corrupt
// ciphertext or wrong key). Ciphertext is never passed through as plaintext.
var ErrDecrypt = errors.New("credential decryption failed")

// Cipher encrypts and decrypts provider API keys. It is stateless per call
// and safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 64-character hex key (32 bytes, AES-256).
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid AES key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid AES key: got %d bytes, want 32", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns the base64 ciphertext of plaintext with a random nonce
// prepended.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plaintext), nil
}

// Resolver turns a stored encrypted key into a plaintext secret.
type Resolver struct {
	cipher *Cipher
}

// NewResolver creates a Resolver over the given cipher.
func NewResolver(c *Cipher) *Resolver {
	return &Resolver{cipher: c}
}

// Resolve decrypts encrypted and returns (key, true, nil). An empty input
// means the user has no key of their own: Resolve returns ("", false, nil)
// and the caller falls back to the system-default credential. A decryption
// failure is terminal and reported as ErrDecrypt; absence and failure are
// never conflated.
func (r *Resolver) Resolve(encrypted string) (string, bool, error) {
	if encrypted == "" {
		return "", false, nil
	}
	key, err := r.cipher.Decrypt(encrypted)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}
