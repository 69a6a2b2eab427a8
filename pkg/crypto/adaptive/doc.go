// Package adaptive provides authenticated encryption for ledger state at
// rest.
//
// Supported Algorithms:
//
//   - AES-256-GCM: default on amd64 and arm64 where AES is hardware
//     accelerated
//   - ChaCha20-Poly1305: default elsewhere
//
// Keys are 32 bytes. DeriveKey turns an operator passphrase into a key with
// Argon2id; DeriveSubkey separates keys per purpose with HKDF-SHA256.
//
// Usage:
//
//	key := adaptive.DeriveKey(passphrase, salt)
//	c, err := adaptive.NewWithType(key, adaptive.CipherAESGCM)
//	sealed, err := c.Encrypt(plaintext, header)
//	plain, err := c.Decrypt(sealed, header)
package adaptive
