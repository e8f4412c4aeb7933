package compressors

import "io"

// NoneCodec is a no-op codec that returns data unchanged
type NoneCodec struct{}

// NewNoneCodec creates a new no-op codec
func NewNoneCodec() *NoneCodec {
	return &NoneCodec{}
}

// Compress returns the data unchanged (no compression)
func (c *NoneCodec) Compress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

// NewReader returns r unchanged
func (c *NoneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Extension returns an empty string (no compression extension)
func (c *NoneCodec) Extension() string {
	return ""
}

// DefaultLevel returns 0 (no compression level needed)
func (c *NoneCodec) DefaultLevel() int {
	return 0
}
