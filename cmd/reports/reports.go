package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/verityio/data-reconciler/cmd/compressors"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// ErrUnknownFormat is returned for a report format the writer cannot render.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders batch results to files under a single output directory.
// File names carry a timestamp so repeated runs never overwrite each other.
type Writer struct {
	OutputDir string
	Logger    *slog.Logger

	// Compression names a codec to compress report files with; empty or
	// "none" writes plain files. The codec's extension is appended to
	// the file name.
	Compression string

	// now is overridable for deterministic file names in tests
	now func() time.Time
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{OutputDir: dir, Logger: logger, now: time.Now}
}

func (w *Writer) timestamp() string {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	return now().Format("20060102_150405")
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (w *Writer) log(msg string) {
	if w.Logger != nil {
		w.Logger.Info(msg)
	}
}

// writeFile writes one rendered report, compressing it and extending the
// file name when a codec is configured.
func (w *Writer) writeFile(path string, data []byte) (string, error) {
	if w.Compression != "" && w.Compression != "none" {
		codec, err := compressors.GetCodec(w.Compression)
		if err != nil {
			return "", err
		}
		compressed, err := codec.Compress(data, codec.DefaultLevel())
		if err != nil {
			return "", fmt.Errorf("failed to compress report: %w", err)
		}
		data = compressed
		path += codec.Extension()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// WriteAll renders the consolidated result in each requested format and
// returns the generated paths keyed by format name. The first failing
// format stops the run; paths written so far are returned with the error.
func (w *Writer) WriteAll(result *recon.ConsolidatedResult, formats []string) (map[string]string, error) {
	paths := make(map[string]string)
	for _, format := range formats {
		var (
			path string
			err  error
		)
		switch format {
		case "json":
			path, err = w.WriteJSON(result)
		case "csv":
			path, err = w.WriteCSV(result)
		case "html":
			path, err = w.WriteHTML(result)
		default:
			return paths, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
		if err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", format, err)
		}
		paths[format] = path
	}
	return paths, nil
}

// WriteJSON writes the full consolidated result as indented JSON.
func (w *Writer) WriteJSON(result *recon.ConsolidatedResult) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(w.OutputDir, fmt.Sprintf("consolidated_summary_%s.json", w.timestamp()))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	path, err = w.writeFile(path, data)
	if err != nil {
		return "", err
	}
	w.log(fmt.Sprintf("JSON report generated: %s", path))
	return path, nil
}

// WriteCSV writes the per-dataset summary table.
func (w *Writer) WriteCSV(result *recon.ConsolidatedResult) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(w.OutputDir, fmt.Sprintf("consolidated_summary_%s.csv", w.timestamp()))

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	header := []string{
		"Dataset", "Description", "Status", "Overall_Match",
		"Metadata_Match", "Fingerprint_Match", "Full_Match",
		"Source_Rows", "Destination_Rows", "Processing_Time_Seconds", "Error",
	}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range result.Summaries {
		record := []string{
			s.Name,
			s.Description,
			s.Status,
			strconv.FormatBool(s.OverallMatch),
			strconv.FormatBool(s.MetadataMatch),
			strconv.FormatBool(s.FingerprintMatch),
			strconv.FormatBool(s.FullMatch),
			strconv.Itoa(s.SourceRows),
			strconv.Itoa(s.DestinationRows),
			strconv.FormatFloat(s.ProcessingSeconds, 'f', 2, 64),
			s.Error,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV report: %w", err)
	}
	path, err := w.writeFile(path, buffer.Bytes())
	if err != nil {
		return "", err
	}
	w.log(fmt.Sprintf("CSV report generated: %s", path))
	return path, nil
}

// WriteDatasetJSON writes one pair's full report, including findings and
// recommendations, as indented JSON.
func (w *Writer) WriteDatasetJSON(result *recon.DatasetComparisonResult) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(w.OutputDir, fmt.Sprintf("comparison_summary_%s_%s.json", result.Name, w.timestamp()))

	report := BuildDatasetReport(result)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset report: %w", err)
	}
	path, err = w.writeFile(path, data)
	if err != nil {
		return "", err
	}
	w.log(fmt.Sprintf("Dataset report generated: %s", path))
	return path, nil
}
