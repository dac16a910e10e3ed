// Package compression wraps the codecs used for stored payloads.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ForName returns the compressor configured as storage.compression.
func ForName(name string) (Compressor, error) {
	switch name {
	case "", "zstd":
		return ZstdCompressor{}, nil
	case "gzip":
		return GzipCompressor{}, nil
	}
	return nil, fmt.Errorf("unknown compression %q", name)
}
