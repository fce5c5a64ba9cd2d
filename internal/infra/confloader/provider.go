package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
	"github.com/pelletier/go-toml/v2"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider over a map of dotted keys.
type mapProvider map[string]any

// ReadBytes is not supported; koanf falls back to Read.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map with dotted keys expanded into nested maps.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}

// TOMLParser is a koanf.Parser backed by go-toml.
type TOMLParser struct{}

// TOML returns a koanf parser for TOML documents.
func TOML() *TOMLParser {
	return &TOMLParser{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *TOMLParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOMLParser) Marshal(m map[string]any) ([]byte, error) {
	return toml.Marshal(m)
}
