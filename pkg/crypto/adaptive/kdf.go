package adaptive

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// MinPassphraseLength is the shortest accepted passphrase.
const MinPassphraseLength = 8

// ErrPassphraseTooShort is returned for passphrases under
// MinPassphraseLength characters.
var ErrPassphraseTooShort = errors.New("adaptive: passphrase too short")

// Argon2id parameters.
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// DeriveKey derives a KeySize key from passphrase with Argon2id. The same
// passphrase and salt always yield the same key.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrPassphraseTooShort
	}
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, KeySize), nil
}

// DeriveSubkey derives a purpose-specific key from a master key with
// HKDF-SHA256.
func DeriveSubkey(master []byte, purpose string) ([]byte, error) {
	if len(master) != KeySize {
		return nil, ErrKeySize
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("adaptive: derive subkey: %w", err)
	}
	return key, nil
}

// Zero overwrites key in place.
func Zero(key []byte) {
	clear(key)
}
