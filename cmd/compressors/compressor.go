package compressors

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedCompression is returned when an unsupported compression type is requested
var ErrUnsupportedCompression = errors.New("unsupported compression type")

// Codec defines the interface for compression handlers. Connectors use the
// reader side to decode compressed dataset files; report writers use the
// writer side for compressed output.
type Codec interface {
	// Compress compresses the input data
	Compress(data []byte, level int) ([]byte, error)

	// NewReader wraps r with a decompressing reader
	NewReader(r io.Reader) (io.ReadCloser, error)

	// Extension returns the file extension for this compression (e.g., ".zst", ".lz4", ".gz")
	Extension() string

	// DefaultLevel returns the default compression level
	DefaultLevel() int
}

// GetCodec returns the appropriate codec based on the compression string
func GetCodec(compression string) (Codec, error) {
	switch compression {
	case "zstd":
		return NewZstdCodec(), nil
	case "lz4":
		return NewLZ4Codec(), nil
	case "gzip":
		return NewGzipCodec(), nil
	case "none", "":
		return NewNoneCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}
}

// DetectCompression maps a file path to its compression name by extension.
// An unrecognized extension means an uncompressed file.
func DetectCompression(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return "zstd"
	case ".lz4":
		return "lz4"
	case ".gz", ".gzip":
		return "gzip"
	default:
		return "none"
	}
}

// TrimCompressionExt strips a recognized compression extension so the
// underlying data format extension becomes visible.
func TrimCompressionExt(path string) string {
	if DetectCompression(path) == "none" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
