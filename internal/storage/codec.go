package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

// Blob layout:
//
//	[magic:7 "CRXLEDG"][version:1][flags:1][payload]
//
// The payload is the JSON encoding of domain.LedgerState. When flagEncrypted
// is set it is sealed with the configured cipher, using the 9 header bytes
// as additional data.
var blobMagic = []byte("CRXLEDG")

const (
	blobVersion   byte = 1
	headerSize         = 9
	flagEncrypted byte = 1 << 0
)

// Decode failure reasons, used as log fields and metric labels.
const (
	ReasonMagic     = "magic"
	ReasonVersion   = "version"
	ReasonNoCipher  = "encrypted_without_key"
	ReasonDecrypt   = "decrypt"
	ReasonDecode    = "decode"
	ReasonReadError = "read_error"
)

// DecodeError reports why a blob could not be decoded.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "storage: decode blob: " + e.Reason
	}
	return fmt.Sprintf("storage: decode blob: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Codec converts ledger states to blobs.
type Codec struct {
	cipher adaptive.Cipher
}

// NewCodec returns a codec. A nil cipher stores plaintext blobs.
func NewCodec(cipher adaptive.Cipher) *Codec {
	return &Codec{cipher: cipher}
}

// Encrypted reports whether Encode seals the payload.
func (c *Codec) Encrypted() bool { return c.cipher != nil }

// Encode serializes st.
func (c *Codec) Encode(st *domain.LedgerState) ([]byte, error) {
	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal state: %w", err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, blobMagic...)
	header = append(header, blobVersion, 0)

	if c.cipher != nil {
		header[headerSize-1] |= flagEncrypted
		payload, err = c.cipher.Encrypt(payload, header)
		if err != nil {
			return nil, fmt.Errorf("storage: encrypt state: %w", err)
		}
	}

	return append(header, payload...), nil
}

// Decode parses a blob produced by Encode. Failures are *DecodeError.
func (c *Codec) Decode(blob []byte) (*domain.LedgerState, error) {
	if len(blob) < headerSize || !bytes.Equal(blob[:len(blobMagic)], blobMagic) {
		return nil, &DecodeError{Reason: ReasonMagic}
	}
	if v := blob[len(blobMagic)]; v != blobVersion {
		return nil, &DecodeError{Reason: ReasonVersion, Err: fmt.Errorf("unsupported version %d", v)}
	}

	header := blob[:headerSize]
	payload := blob[headerSize:]

	if header[headerSize-1]&flagEncrypted != 0 {
		if c.cipher == nil {
			return nil, &DecodeError{Reason: ReasonNoCipher}
		}
		plain, err := c.cipher.Decrypt(payload, header)
		if err != nil {
			return nil, &DecodeError{Reason: ReasonDecrypt, Err: err}
		}
		payload = plain
	}

	st := &domain.LedgerState{}
	if err := json.Unmarshal(payload, st); err != nil {
		return nil, &DecodeError{Reason: ReasonDecode, Err: err}
	}
	st.Normalize()
	return st, nil
}
