// Package codec centralizes parameter document encoding.
//
// Decoders keep JSON numbers as json.Number so that integral labels such as
// 2024 stay ints instead of becoming float64.
package codec

import (
	"fmt"
	"path"
	"strings"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "yaml":
		return YAML{}, true
	default:
		return nil, false
	}
}

// ForPath selects a codec from a file name. ".yaml" and ".yml" select YAML;
// anything else selects Default. Compression suffixes must be stripped
// first.
func ForPath(name string) Codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return YAML{}
	default:
		return Default
	}
}

// Sniff selects a codec for inline document text: JSON when the first
// non-blank byte opens an object or array, YAML otherwise.
func Sniff(data []byte) Codec {
	s := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return Default
	}
	return YAML{}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
