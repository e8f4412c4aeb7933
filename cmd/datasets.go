package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/verityio/data-reconciler/cmd/connectors"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// Static errors for dataset list loading
var (
	ErrDatasetsFileEmpty       = errors.New("datasets file contains no datasets")
	ErrDatasetsHeaderMissing   = errors.New("datasets CSV is missing required headers")
	ErrDatasetsFormatUnknown   = errors.New("datasets file must be .csv, .yaml, .yml or .json")
	ErrDatasetSourceIncomplete = errors.New("dataset row needs a source table, query, path or key")
	ErrDatasetTargetIncomplete = errors.New("dataset row needs a destination table, query, path or key")
)

// DatasetEntry is one dataset pair as configured in a datasets file.
type DatasetEntry struct {
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	Notes       string            `mapstructure:"notes"`
	Source      connectors.Spec   `mapstructure:"source"`
	Destination connectors.Spec   `mapstructure:"destination"`
	Overrides   *SettingsOverride `mapstructure:"overrides"`
}

// SettingsOverride carries per-dataset engine-setting overrides. Nil
// fields keep the batch-wide value.
type SettingsOverride struct {
	ChunkSize                *int  `mapstructure:"chunk_size"`
	MaxParallelism           *int  `mapstructure:"max_parallelism"`
	SampleSize               *int  `mapstructure:"sample_size"`
	EnableMetadataComparison *bool `mapstructure:"enable_metadata_comparison"`
	EnableFingerprinting     *bool `mapstructure:"enable_fingerprinting"`
	EnableSampling           *bool `mapstructure:"enable_sampling"`
	EnableFullComparison     *bool `mapstructure:"enable_full_comparison"`
}

// Apply folds the overrides into a copy of the batch settings.
func (o *SettingsOverride) Apply(base recon.Settings) recon.Settings {
	if o == nil {
		return base
	}
	if o.ChunkSize != nil {
		base.ChunkSize = *o.ChunkSize
	}
	if o.MaxParallelism != nil {
		base.MaxParallelism = *o.MaxParallelism
	}
	if o.SampleSize != nil {
		base.SampleSize = *o.SampleSize
	}
	if o.EnableMetadataComparison != nil {
		base.EnableMetadataComparison = *o.EnableMetadataComparison
	}
	if o.EnableFingerprinting != nil {
		base.EnableFingerprinting = *o.EnableFingerprinting
	}
	if o.EnableSampling != nil {
		base.EnableSampling = *o.EnableSampling
	}
	if o.EnableFullComparison != nil {
		base.EnableFullComparison = *o.EnableFullComparison
	}
	return base
}

// IsEmpty reports whether no override field is set.
func (o *SettingsOverride) IsEmpty() bool {
	return o == nil || (o.ChunkSize == nil && o.MaxParallelism == nil && o.SampleSize == nil &&
		o.EnableMetadataComparison == nil && o.EnableFingerprinting == nil &&
		o.EnableSampling == nil && o.EnableFullComparison == nil)
}

// LoadDatasets reads a dataset list from a CSV or YAML/JSON file. CSV rows
// inherit connection details from the configured source and destination
// specs; YAML entries may spell out full connector specs instead.
func LoadDatasets(path string, defaults *Config) ([]DatasetEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open datasets file: %w", err)
		}
		defer file.Close()
		return loadDatasetsCSV(file, defaults)
	case ".yaml", ".yml", ".json":
		return loadDatasetsConfig(path, defaults)
	default:
		return nil, fmt.Errorf("%w: %s", ErrDatasetsFormatUnknown, path)
	}
}

// csvOverrideColumns are the recognized datasets.csv override headers,
// mirroring the per-dataset toggles of the YAML form.
var csvOverrideColumns = []string{
	"chunk_size_override",
	"max_parallelism_override",
	"sample_size_override",
	"enable_metadata_comparison",
	"enable_fingerprinting",
	"enable_sampling",
	"enable_full_comparison",
}

func loadDatasetsCSV(r io.Reader, defaults *Config) ([]DatasetEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse datasets CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrDatasetsFileEmpty
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := header["name"]; !ok {
		return nil, fmt.Errorf("%w: need at least a name column", ErrDatasetsHeaderMissing)
	}

	field := func(record []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []DatasetEntry
	for rowNum, record := range records[1:] {
		// Header is row 1
		row := rowNum + 2

		name := field(record, "name")
		if name == "" {
			return nil, fmt.Errorf("row %d: %w", row, ErrDatasetNameRequired)
		}

		entry := DatasetEntry{
			Name:        name,
			Description: field(record, "description"),
			Notes:       field(record, "notes"),
			Source:      defaults.Source,
			Destination: defaults.Destination,
		}
		if entry.Description == "" {
			entry.Description = fmt.Sprintf("Dataset: %s", name)
		}

		applySpecFields(&entry.Source, record, field, "source")
		applySpecFields(&entry.Destination, record, field, "destination")

		if entry.Source.Table == "" && entry.Source.Query == "" && entry.Source.Path == "" && entry.Source.Key == "" {
			return nil, fmt.Errorf("row %d: %w", row, ErrDatasetSourceIncomplete)
		}
		if entry.Destination.Table == "" && entry.Destination.Query == "" && entry.Destination.Path == "" && entry.Destination.Key == "" {
			return nil, fmt.Errorf("row %d: %w", row, ErrDatasetTargetIncomplete)
		}

		overrides, err := parseCSVOverrides(record, field)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		entry.Overrides = overrides

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrDatasetsFileEmpty
	}
	return entries, nil
}

// applySpecFields overlays the CSV row's side-specific columns (for
// example source_table, destination_key) onto the inherited spec.
func applySpecFields(spec *connectors.Spec, record []string, field func([]string, string) string, side string) {
	if v := field(record, side+"_type"); v != "" {
		spec.Type = v
	}
	if v := field(record, side+"_table"); v != "" {
		spec.Table = v
	}
	if v := field(record, side+"_query"); v != "" {
		spec.Query = v
	}
	if v := field(record, side+"_path"); v != "" {
		spec.Path = v
	}
	if v := field(record, side+"_key"); v != "" {
		spec.Key = v
	}
}

func parseCSVOverrides(record []string, field func([]string, string) string) (*SettingsOverride, error) {
	var o SettingsOverride
	for _, column := range csvOverrideColumns {
		raw := field(record, column)
		if raw == "" {
			continue
		}
		switch column {
		case "chunk_size_override", "max_parallelism_override", "sample_size_override":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", column, raw, err)
			}
			switch column {
			case "chunk_size_override":
				o.ChunkSize = &n
			case "max_parallelism_override":
				o.MaxParallelism = &n
			case "sample_size_override":
				o.SampleSize = &n
			}
		default:
			b, err := strconv.ParseBool(strings.ToLower(raw))
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", column, raw, err)
			}
			switch column {
			case "enable_metadata_comparison":
				o.EnableMetadataComparison = &b
			case "enable_fingerprinting":
				o.EnableFingerprinting = &b
			case "enable_sampling":
				o.EnableSampling = &b
			case "enable_full_comparison":
				o.EnableFullComparison = &b
			}
		}
	}
	if o.IsEmpty() {
		return nil, nil
	}
	return &o, nil
}

// loadDatasetsConfig reads the YAML/JSON form via viper: a top-level
// "datasets" list of entries, each optionally carrying full connector
// specs and overrides.
func loadDatasetsConfig(path string, defaults *Config) ([]DatasetEntry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read datasets file: %w", err)
	}

	var entries []DatasetEntry
	if err := v.UnmarshalKey("datasets", &entries); err != nil {
		return nil, fmt.Errorf("failed to parse datasets file: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrDatasetsFileEmpty
	}

	for i := range entries {
		if entries[i].Name == "" {
			return nil, fmt.Errorf("dataset %d: %w", i+1, ErrDatasetNameRequired)
		}
		if entries[i].Description == "" {
			entries[i].Description = fmt.Sprintf("Dataset: %s", entries[i].Name)
		}
		if entries[i].Source.Type == "" {
			entries[i].Source = mergeSpec(defaults.Source, entries[i].Source)
		}
		if entries[i].Destination.Type == "" {
			entries[i].Destination = mergeSpec(defaults.Destination, entries[i].Destination)
		}
	}
	return entries, nil
}

// mergeSpec overlays an entry's partial spec onto the batch-wide default.
func mergeSpec(base, overlay connectors.Spec) connectors.Spec {
	if overlay.Table != "" {
		base.Table = overlay.Table
	}
	if overlay.Query != "" {
		base.Query = overlay.Query
	}
	if overlay.Path != "" {
		base.Path = overlay.Path
	}
	if overlay.Key != "" {
		base.Key = overlay.Key
	}
	return base
}

// BuildPairs converts dataset entries into engine work items. Each pair's
// loader constructs its connectors lazily so one bad spec never stops the
// batch.
func BuildPairs(entries []DatasetEntry, base recon.Settings, logger *slog.Logger) []recon.DatasetPair {
	pairs := make([]recon.DatasetPair, 0, len(entries))
	for _, entry := range entries {
		entry := entry

		var settings *recon.Settings
		if !entry.Overrides.IsEmpty() {
			s := entry.Overrides.Apply(base)
			settings = &s
		}

		pairs = append(pairs, recon.DatasetPair{
			Name:        entry.Name,
			Description: entry.Description,
			Settings:    settings,
			Load: func(ctx context.Context) (recon.Source, recon.Source, error) {
				source, err := connectors.New(entry.Source, logger)
				if err != nil {
					return nil, nil, fmt.Errorf("source connector: %w", err)
				}
				destination, err := connectors.New(entry.Destination, logger)
				if err != nil {
					return nil, nil, fmt.Errorf("destination connector: %w", err)
				}

				sourceTable, err := source.Load(ctx)
				if err != nil {
					return nil, nil, fmt.Errorf("failed to load source %s: %w", source.Name(), err)
				}
				destinationTable, err := destination.Load(ctx)
				if err != nil {
					return nil, nil, fmt.Errorf("failed to load destination %s: %w", destination.Name(), err)
				}
				return sourceTable, destinationTable, nil
			},
		})
	}
	return pairs
}
