package connectors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/verityio/data-reconciler/cmd/recon"
)

var (
	ErrUnsupportedSourceType = errors.New("unsupported source type")
	ErrMissingPath           = errors.New("file path is required")
	ErrMissingTable          = errors.New("table name or query is required")
	ErrMissingBucket         = errors.New("s3 bucket is required")
	ErrMissingKey            = errors.New("s3 object key is required")
	ErrEmptyFile             = errors.New("file has no header row")
)

// Connector loads one side of a dataset pair into memory.
type Connector interface {
	// Name identifies the source in logs and reports
	Name() string

	// Load reads the full dataset
	Load(ctx context.Context) (*recon.Table, error)
}

// Spec is the declarative form of a connector, as it appears in dataset
// configuration files.
type Spec struct {
	Type     string         `mapstructure:"type" json:"type"`
	Table    string         `mapstructure:"table" json:"table,omitempty"`
	Query    string         `mapstructure:"query" json:"query,omitempty"`
	Path     string         `mapstructure:"path" json:"path,omitempty"`
	Key      string         `mapstructure:"key" json:"key,omitempty"`
	Database DatabaseConfig `mapstructure:"database" json:"database,omitempty"`
	S3       S3Config       `mapstructure:"s3" json:"s3,omitempty"`
}

// New builds the connector a spec describes.
func New(spec Spec, logger *slog.Logger) (Connector, error) {
	switch spec.Type {
	case "postgres", "db":
		if spec.Table == "" && spec.Query == "" {
			return nil, ErrMissingTable
		}
		return NewPostgresConnector(spec.Database, spec.Table, spec.Query, logger), nil
	case "csv", "jsonl", "parquet", "file":
		if spec.Path == "" {
			return nil, ErrMissingPath
		}
		return NewFileConnector(spec.Path, logger), nil
	case "s3":
		if spec.S3.Bucket == "" {
			return nil, ErrMissingBucket
		}
		if spec.Key == "" {
			return nil, ErrMissingKey
		}
		return NewS3Connector(spec.S3, spec.Key, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSourceType, spec.Type)
	}
}
