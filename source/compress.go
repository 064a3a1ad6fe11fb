package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	suffixZstd = ".zst"
	suffixLZ4  = ".lz4"
)

// StripCompression removes a recognized compression suffix from name.
func StripCompression(name string) string {
	for _, suffix := range []string{suffixZstd, suffixLZ4} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// Decompress decodes data according to the compression suffix of name.
// Names without a recognized suffix are returned unchanged.
func Decompress(name string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, suffixZstd):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		return out, nil
	case strings.HasSuffix(name, suffixLZ4):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 %s: %w", name, err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// Compress encodes data according to the compression suffix of name.
func Compress(name string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, suffixZstd):
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(data, nil), nil
	case strings.HasSuffix(name, suffixLZ4):
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return data, nil
	}
}
