package cookies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	pbkdf2Iterations = 100_000
)

var (
	ErrEmptySecret     = errors.New("cookie secret must not be empty")
	ErrCiphertextShort = errors.New("ciphertext too short to contain nonce")
)

// encoding is cookie-safe and strict so that flipping any character of a stored
// value is detected instead of decoding to the same bytes.
var encoding = base64.RawURLEncoding.Strict()

// Cipher encrypts cookie payloads with AES-256-GCM under a key derived from the
// pre-shared secret and salt.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the cookie key with PBKDF2-SHA256.
func NewCipher(secret, salt string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := pbkdf2.Key([]byte(secret), []byte(salt), pbkdf2Iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return encoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering yields an error.
func (c *Cipher) Decrypt(value string) (string, error) {
	raw, err := encoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode cookie value: %w", err)
	}
	n := c.aead.NonceSize()
	if len(raw) < n {
		return "", ErrCiphertextShort
	}
	plain, err := c.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt cookie value: %w", err)
	}
	return string(plain), nil
}
