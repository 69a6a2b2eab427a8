package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-256-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the key length accepted by every cipher.
const KeySize = 32

// Errors.
var (
	ErrKeySize            = fmt.Errorf("adaptive: key must be %d bytes", KeySize)
	ErrCiphertextTooShort = errors.New("adaptive: ciphertext too short")
	ErrUnknownCipher      = errors.New("adaptive: unknown cipher type")
)

// Cipher provides authenticated encryption. Implementations are safe for
// concurrent use.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Encrypt seals plaintext. The random nonce is prepended to the result.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt opens a value produced by Encrypt.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// New creates a cipher using the preferred algorithm for this platform.
func New(key []byte) (Cipher, error) {
	return NewWithType(key, Preferred())
}

// Preferred returns the algorithm New picks on this platform.
func Preferred() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}

// ParseCipherType accepts the configuration spellings of an algorithm.
// The empty string selects Preferred.
func ParseCipherType(s string) (CipherType, error) {
	switch s {
	case "":
		return Preferred(), nil
	case "aes-256-gcm", "aes-gcm":
		return CipherAESGCM, nil
	case "chacha20-poly1305", "chacha20":
		return CipherChaCha20, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCipher, s)
	}
}

// NewWithType creates a cipher of the specified type.
func NewWithType(key []byte, t CipherType) (Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch t {
	case CipherAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherChaCha20:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCipher, t)
	}
	if err != nil {
		return nil, err
	}

	return &aeadCipher{typ: t, aead: aead}, nil
}

type aeadCipher struct {
	typ  CipherType
	aead cipher.AEAD
}

func (c *aeadCipher) Type() CipherType { return c.typ }

func (c *aeadCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n+c.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
