package account

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// Size is the payload length of an ID in bytes.
const Size = 32

// Version is the leading byte of the encoded form.
const Version byte = 0x43

const checksumLen = 4

// Encoded lengths.
const (
	rawLen = 1 + Size + checksumLen
)

// Parse errors.
var (
	ErrEmpty            = errors.New("account: empty identifier")
	ErrInvalidEncoding  = errors.New("account: invalid base58 encoding")
	ErrInvalidLength    = errors.New("account: invalid identifier length")
	ErrInvalidVersion   = errors.New("account: unknown identifier version")
	ErrChecksumMismatch = errors.New("account: checksum mismatch")
)

// ID identifies a ledger participant.
type ID [Size]byte

var (
	// None is the sender recorded on mint and airdrop transactions.
	None = ID{}

	// Anonymous is the identity of an unauthenticated caller.
	Anonymous = ID{Size - 1: 0x04}
)

// FromBytes builds an ID from a raw payload.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != Size {
		return id, ErrInvalidLength
	}
	copy(id[:], b)
	return id, nil
}

// Parse decodes the text form of an ID.
func Parse(s string) (ID, error) {
	var id ID
	if s == "" {
		return id, ErrEmpty
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(raw) != rawLen {
		return id, ErrInvalidLength
	}
	if raw[0] != Version {
		return id, ErrInvalidVersion
	}

	body := raw[:1+Size]
	if !bytes.Equal(checksum(body), raw[1+Size:]) {
		return id, ErrChecksumMismatch
	}

	copy(id[:], raw[1:1+Size])
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the base58 text form.
func (id ID) String() string {
	raw := make([]byte, 0, rawLen)
	raw = append(raw, Version)
	raw = append(raw, id[:]...)
	raw = append(raw, checksum(raw)...)
	return base58.Encode(raw)
}

// Short returns an abbreviated form suitable for logs.
func (id ID) Short() string {
	s := id.String()
	if len(s) <= 12 {
		return s
	}
	return s[:6] + ".." + s[len(s)-4:]
}

// Bytes returns a copy of the payload.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// IsNone reports whether id is the None sentinel.
func (id ID) IsNone() bool {
	return id == None
}

// IsAnonymous reports whether id is the Anonymous sentinel.
func (id ID) IsAnonymous() bool {
	return id == Anonymous
}

// IsReserved reports whether id is one of the reserved sentinels.
func (id ID) IsReserved() bool {
	return id == None || id == Anonymous
}

// Compare orders IDs by their raw payload.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func checksum(body []byte) []byte {
	sum := sha3.Sum256(body)
	return sum[:checksumLen]
}
