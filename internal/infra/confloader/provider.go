package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// errReadBytesNotSupported is returned when koanf asks a map provider for
// raw bytes.
var errReadBytesNotSupported = errors.New("confloader: map provider does not support ReadBytes")

// mapProvider is a koanf provider over a map of dotted keys.
type mapProvider map[string]any

// ReadBytes is not supported; koanf uses Read.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesNotSupported
}

// Read returns the configuration map with dotted keys expanded.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}
