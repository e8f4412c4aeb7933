package cmd

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/verityio/data-reconciler/cmd/compressors"
	"github.com/verityio/data-reconciler/cmd/connectors"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// Static errors for configuration validation
var (
	ErrSourceTypeRequired      = errors.New("source type is required")
	ErrDestinationTypeRequired = errors.New("destination type is required")
	ErrDatasetNameRequired     = errors.New("dataset name is required")
	ErrDatasetNameInvalid      = errors.New("dataset name is invalid: must be 1-63 characters, start with a letter or underscore, and contain only letters, numbers, underscores, and dashes")
	ErrChunkSizeMinimum        = errors.New("chunk size must be at least 1")
	ErrChunkSizeMaximum        = errors.New("chunk size must not exceed 100000000")
	ErrParallelismMinimum      = errors.New("max parallelism must be at least 1")
	ErrParallelismMaximum      = errors.New("max parallelism must not exceed 1000")
	ErrSampleSizeMinimum       = errors.New("sample size must be at least 1")
	ErrSamplingStrategyInvalid = errors.New("sampling strategy must be one of: random, systematic, stratified, adaptive")
	ErrAlgorithmInvalid        = errors.New("fingerprint algorithm must be one of: md5, sha256, xxhash")
	ErrColumnNameInvalid       = errors.New("column name is invalid: must start with a letter or underscore, and contain only letters, numbers, and underscores")
	ErrNoPhasesEnabled         = errors.New("at least one comparison phase must be enabled")
	ErrReportFormatInvalid     = errors.New("report format must be one of: json, csv, html")
	ErrCompressionInvalid      = errors.New("report compression must be one of: none, gzip, zstd, lz4")
	ErrOutputDirRequired       = errors.New("output directory is required")
)

type Config struct {
	Debug     bool
	LogFormat string
	NoTUI     bool

	Name        string
	Description string
	Source      connectors.Spec
	Destination connectors.Spec

	ChunkSize            int
	MaxParallelism       int
	SampleSize           int
	SamplingStrategy     string
	StratifyColumn       string
	FingerprintColumns   []string
	FingerprintAlgorithm string
	Seed                 int64

	EnableMetadataComparison bool
	EnableFingerprinting     bool
	EnableSampling           bool
	EnableFullComparison     bool

	OutputDir         string
	ReportFormats     []string
	ReportCompression string
}

// validIdentifier matches PostgreSQL identifier rules; column and table
// names are interpolated into SQL and must be safe.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validDatasetName additionally allows dashes, since dataset names only
// ever reach logs and report file names.
var validDatasetName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

func isValidColumnName(name string) bool {
	return name != "" && len(name) <= 63 && validIdentifier.MatchString(name)
}

func isValidDatasetName(name string) bool {
	return name != "" && len(name) <= 63 && validDatasetName.MatchString(name)
}

// Validate checks the engine options, connector specs and report options.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrDatasetNameRequired
	}
	if !isValidDatasetName(c.Name) {
		return fmt.Errorf("%w: %q", ErrDatasetNameInvalid, c.Name)
	}
	if c.Source.Type == "" {
		return ErrSourceTypeRequired
	}
	if c.Destination.Type == "" {
		return ErrDestinationTypeRequired
	}

	if err := c.validateEngineOptions(); err != nil {
		return err
	}

	if c.OutputDir == "" {
		return ErrOutputDirRequired
	}
	for _, format := range c.ReportFormats {
		switch format {
		case "json", "csv", "html":
		default:
			return fmt.Errorf("%w: got %q", ErrReportFormatInvalid, format)
		}
	}
	if c.ReportCompression != "" {
		if _, err := compressors.GetCodec(c.ReportCompression); err != nil {
			return fmt.Errorf("%w: got %q", ErrCompressionInvalid, c.ReportCompression)
		}
	}
	return nil
}

func (c *Config) validateEngineOptions() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: got %d", ErrChunkSizeMinimum, c.ChunkSize)
	}
	if c.ChunkSize > 100_000_000 {
		return fmt.Errorf("%w: got %d", ErrChunkSizeMaximum, c.ChunkSize)
	}
	if c.MaxParallelism < 1 {
		return fmt.Errorf("%w: got %d", ErrParallelismMinimum, c.MaxParallelism)
	}
	if c.MaxParallelism > 1000 {
		return fmt.Errorf("%w: got %d", ErrParallelismMaximum, c.MaxParallelism)
	}
	if c.SampleSize < 1 {
		return fmt.Errorf("%w: got %d", ErrSampleSizeMinimum, c.SampleSize)
	}
	if _, err := recon.ParseStrategy(c.SamplingStrategy); err != nil {
		return fmt.Errorf("%w: got %q", ErrSamplingStrategyInvalid, c.SamplingStrategy)
	}
	if _, err := recon.ParseAlgorithm(c.FingerprintAlgorithm); err != nil {
		return fmt.Errorf("%w: got %q", ErrAlgorithmInvalid, c.FingerprintAlgorithm)
	}
	if c.StratifyColumn != "" && !isValidColumnName(c.StratifyColumn) {
		return fmt.Errorf("%w: %q", ErrColumnNameInvalid, c.StratifyColumn)
	}
	for _, col := range c.FingerprintColumns {
		if !isValidColumnName(col) {
			return fmt.Errorf("%w: %q", ErrColumnNameInvalid, col)
		}
	}
	if !c.EnableMetadataComparison && !c.EnableFingerprinting && !c.EnableSampling && !c.EnableFullComparison {
		return ErrNoPhasesEnabled
	}
	return nil
}

// EngineSettings converts the validated configuration into engine
// settings. Strategy and algorithm parse errors cannot occur after
// Validate.
func (c *Config) EngineSettings() recon.Settings {
	strategy, _ := recon.ParseStrategy(c.SamplingStrategy)
	algorithm, _ := recon.ParseAlgorithm(c.FingerprintAlgorithm)
	return recon.Settings{
		ChunkSize:                c.ChunkSize,
		MaxParallelism:           c.MaxParallelism,
		SampleSize:               c.SampleSize,
		SamplingStrategy:         strategy,
		StratifyColumn:           c.StratifyColumn,
		FingerprintColumns:       c.FingerprintColumns,
		FingerprintAlgorithm:     algorithm,
		Seed:                     c.Seed,
		EnableMetadataComparison: c.EnableMetadataComparison,
		EnableFingerprinting:     c.EnableFingerprinting,
		EnableSampling:           c.EnableSampling,
		EnableFullComparison:     c.EnableFullComparison,
	}
}
