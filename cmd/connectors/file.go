package connectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/verityio/data-reconciler/cmd/compressors"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// Tabular file formats the file connector understands.
const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

// FileConnector loads a local tabular file. The format is detected from
// the extension (csv, jsonl, parquet), after stripping any compression
// extension. Parquet compresses internally; the other formats may carry a
// zstd, lz4 or gzip wrapper.
type FileConnector struct {
	path   string
	logger *slog.Logger
}

// NewFileConnector creates a connector for one file.
func NewFileConnector(path string, logger *slog.Logger) *FileConnector {
	return &FileConnector{path: path, logger: logger}
}

// Name identifies the source in logs and reports
func (c *FileConnector) Name() string {
	base := filepath.Base(compressors.TrimCompressionExt(c.path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads the whole file into memory.
func (c *FileConnector) Load(ctx context.Context) (*recon.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.path, err)
	}
	defer file.Close()

	if c.logger != nil {
		c.logger.Debug(fmt.Sprintf("Loading %s (format: %s, compression: %s)",
			c.path, DetectFormat(c.path), compressors.DetectCompression(c.path)))
	}
	return loadFile(file, c.Name(), c.path)
}

// DetectFormat returns the tabular format a path's extension declares,
// ignoring any trailing compression extension. Unknown extensions are
// treated as CSV.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(compressors.TrimCompressionExt(path))) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".parquet":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// loadFile parses tabular content from r, using path only to detect the
// format and compression. The S3 connector shares this path with its
// object key.
func loadFile(r io.Reader, name, path string) (*recon.Table, error) {
	format := DetectFormat(path)
	if format == FormatParquet {
		// Parquet handles compression internally
		return loadParquet(r, name)
	}

	codec, err := compressors.GetCodec(compressors.DetectCompression(path))
	if err != nil {
		return nil, err
	}
	decompressed, err := codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompression reader: %w", err)
	}
	defer decompressed.Close()

	if format == FormatJSONL {
		return loadJSONL(decompressed, name)
	}
	return loadCSV(decompressed, name)
}
