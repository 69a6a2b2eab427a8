package account

import (
	"crypto/rand"
	"io"
)

// Generate returns a new random ID.
func Generate() (ID, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom reads a new ID from r. A draw that lands on a reserved
// value is discarded.
func GenerateFrom(r io.Reader) (ID, error) {
	for {
		var id ID
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return ID{}, err
		}
		if !id.IsReserved() {
			return id, nil
		}
	}
}
