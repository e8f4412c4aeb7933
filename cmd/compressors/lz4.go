package compressors

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec handles LZ4 compression
type LZ4Codec struct{}

// lz4Levels maps the 1-9 level range onto the library's level constants,
// which are not plain integers. Level 1 is the fast path; higher levels
// use the high-compression encoder.
var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast,   // 1
	lz4.Level2, // 2
	lz4.Level3, // 3
	lz4.Level4, // 4
	lz4.Level5, // 5
	lz4.Level6, // 6
	lz4.Level7, // 7
	lz4.Level8, // 8
	lz4.Level9, // 9
}

// NewLZ4Codec creates a new LZ4 codec
func NewLZ4Codec() *LZ4Codec {
	return &LZ4Codec{}
}

// Compress compresses data using LZ4
func (c *LZ4Codec) Compress(data []byte, level int) ([]byte, error) {
	var buffer bytes.Buffer

	writer := lz4.NewWriter(&buffer)

	// Set compression level (1-9)
	if level >= 1 && level <= len(lz4Levels) {
		if err := writer.Apply(lz4.CompressionLevelOption(lz4Levels[level-1])); err != nil {
			return nil, fmt.Errorf("failed to apply compression level: %w", err)
		}
	}

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close lz4 writer: %w", err)
	}

	return buffer.Bytes(), nil
}

// NewReader wraps r with an lz4 decompression reader
func (c *LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Extension returns the file extension for LZ4 compression
func (c *LZ4Codec) Extension() string {
	return ".lz4"
}

// DefaultLevel returns the default compression level for LZ4
func (c *LZ4Codec) DefaultLevel() int {
	return 1 // Fast compression
}
