package recon

import (
	"fmt"
	"time"
)

// FullComparisonResult aggregates the chunked comparison phase across all
// chunk pairs of one dataset pair.
type FullComparisonResult struct {
	TotalMatches           int      `json:"total_matches"`
	TotalOnlyInSource      int      `json:"total_only_in_source"`
	TotalOnlyInDestination int      `json:"total_only_in_destination"`
	TotalDifferences       int      `json:"total_differences"`
	TotalRowsProcessed     int      `json:"total_rows_processed"`
	MatchPercentage        float64  `json:"match_percentage"`
	SuccessfulChunks       int      `json:"successful_chunks"`
	FailedChunks           int      `json:"failed_chunks"`
	TotalChunks            int      `json:"total_chunks"`
	Errors                 []string `json:"errors,omitempty"`
	DatasetsMatch          bool     `json:"datasets_match"`
	ChunkSize              int      `json:"chunk_size"`
	MaxParallelism         int      `json:"max_parallelism"`
	ProcessingSeconds      float64  `json:"processing_time_seconds"`
}

// AggregateChunkResults folds per-chunk results into the dataset-level
// outcome. The datasets match only when both one-sided totals are zero and
// no chunk failed.
func AggregateChunkResults(chunkResults []ChunkResult) FullComparisonResult {
	agg := FullComparisonResult{TotalChunks: len(chunkResults)}

	for _, r := range chunkResults {
		if r.Failed() {
			agg.FailedChunks++
			agg.Errors = append(agg.Errors, fmt.Sprintf("chunk %d: %s", r.ChunkID, r.Error))
			continue
		}
		agg.SuccessfulChunks++
		agg.TotalMatches += r.Matches
		agg.TotalOnlyInSource += r.OnlyInSource
		agg.TotalOnlyInDestination += r.OnlyInDestination
		agg.TotalRowsProcessed += r.TotalRows
	}

	agg.TotalDifferences = agg.TotalOnlyInSource + agg.TotalOnlyInDestination
	if agg.TotalRowsProcessed > 0 {
		denom := agg.TotalRowsProcessed - agg.TotalDifferences
		if denom < 1 {
			denom = 1
		}
		agg.MatchPercentage = round2(float64(agg.TotalMatches) / float64(denom) * 100)
	}
	agg.DatasetsMatch = agg.TotalDifferences == 0 && agg.FailedChunks == 0
	return agg
}

// SampleMetadata describes one side's sample.
type SampleMetadata struct {
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
}

// SampleComparisonResult is the phase-3 sample comparison: both samples'
// shapes plus the fingerprint comparison of the sampled rows.
type SampleComparisonResult struct {
	SourceSample      SampleMetadata        `json:"source_sample"`
	DestinationSample SampleMetadata        `json:"destination_sample"`
	Fingerprints      FingerprintComparison `json:"fingerprint_comparison"`
	Strategy          string                `json:"sampling_strategy"`
	SampleSize        int                   `json:"sample_size"`
}

// DatasetComparisonResult is the per-pair aggregate: one entry per enabled
// phase, plus timing. Phases that were disabled or not reached are nil.
type DatasetComparisonResult struct {
	Name              string                  `json:"dataset_name"`
	Description       string                  `json:"dataset_description,omitempty"`
	Metadata          *MetadataComparison     `json:"metadata_comparison,omitempty"`
	ColumnComparisons []ColumnComparison      `json:"column_comparisons,omitempty"`
	Fingerprints      *FingerprintComparison  `json:"fingerprint_comparison,omitempty"`
	Sample            *SampleComparisonResult `json:"sample_comparison,omitempty"`
	Drift             *DriftReport            `json:"data_drift,omitempty"`
	Full              *FullComparisonResult   `json:"full_comparison,omitempty"`
	ChunkResults      []ChunkResult           `json:"chunk_results,omitempty"`
	StartedAt         time.Time               `json:"comparison_start_time"`
	FinishedAt        time.Time               `json:"comparison_end_time"`
	ProcessingSeconds float64                 `json:"total_processing_time"`
}

// OverallMatch is the conjunction of the metadata, fingerprint and full
// comparison verdicts. Sample and drift results are informational and
// excluded. A phase that did not run cannot attest a match, so it counts
// as false.
func (r *DatasetComparisonResult) OverallMatch() bool {
	return r.Metadata != nil && r.Metadata.OverallMatch &&
		r.Fingerprints != nil && r.Fingerprints.FingerprintsMatch &&
		r.Full != nil && r.Full.DatasetsMatch
}

// FailedComparison records one dataset pair whose run was aborted by a
// phase failure.
type FailedComparison struct {
	Name        string `json:"dataset_name"`
	Description string `json:"dataset_description,omitempty"`
	Error       string `json:"error"`
}

// DatasetSummary is the one-line batch view of a single pair.
type DatasetSummary struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	OverallMatch      bool    `json:"overall_match"`
	MetadataMatch     bool    `json:"metadata_match"`
	FingerprintMatch  bool    `json:"fingerprint_match"`
	FullMatch         bool    `json:"full_match"`
	SourceRows        int     `json:"source_rows"`
	DestinationRows   int     `json:"destination_rows"`
	ProcessingSeconds float64 `json:"processing_time"`
	Error             string  `json:"error,omitempty"`
}

// ConsolidatedResult folds a whole batch of dataset-pair outcomes into one
// report. It is built once, after every pair has finished, and is
// immutable thereafter.
type ConsolidatedResult struct {
	TotalDatasets            int                        `json:"total_datasets"`
	SuccessfulComparisons    int                        `json:"successful_comparisons"`
	FailedComparisons        int                        `json:"failed_comparisons"`
	OverallMatch             bool                       `json:"overall_match"`
	SuccessRate              float64                    `json:"success_rate"`
	TotalProcessingSeconds   float64                    `json:"total_processing_time"`
	AverageProcessingSeconds float64                    `json:"average_processing_time"`
	TotalRowsProcessed       int                        `json:"total_rows_processed"`
	Summaries                []DatasetSummary           `json:"dataset_summaries"`
	Results                  []*DatasetComparisonResult `json:"detailed_results,omitempty"`
	Failures                 []FailedComparison         `json:"failures,omitempty"`
	GeneratedAt              time.Time                  `json:"generated_at"`
}

// Consolidate merges successful and failed pair outcomes, in the order the
// batch produced them, into the batch-level report.
func Consolidate(results []*DatasetComparisonResult, failures []FailedComparison) *ConsolidatedResult {
	c := &ConsolidatedResult{
		TotalDatasets:         len(results) + len(failures),
		SuccessfulComparisons: len(results),
		FailedComparisons:     len(failures),
		OverallMatch:          true,
		Results:               results,
		Failures:              failures,
		GeneratedAt:           time.Now(),
	}

	for _, r := range results {
		match := r.OverallMatch()
		if !match {
			c.OverallMatch = false
		}
		c.TotalProcessingSeconds += r.ProcessingSeconds

		summary := DatasetSummary{
			Name:              r.Name,
			Description:       r.Description,
			Status:            "success",
			OverallMatch:      match,
			MetadataMatch:     r.Metadata != nil && r.Metadata.OverallMatch,
			FingerprintMatch:  r.Fingerprints != nil && r.Fingerprints.FingerprintsMatch,
			FullMatch:         r.Full != nil && r.Full.DatasetsMatch,
			ProcessingSeconds: r.ProcessingSeconds,
		}
		if r.Metadata != nil {
			summary.SourceRows = r.Metadata.RowCounts.Source
			summary.DestinationRows = r.Metadata.RowCounts.Destination
			c.TotalRowsProcessed += summary.SourceRows + summary.DestinationRows
		}
		c.Summaries = append(c.Summaries, summary)
	}

	if len(failures) > 0 {
		c.OverallMatch = false
	}
	for _, f := range failures {
		c.Summaries = append(c.Summaries, DatasetSummary{
			Name:        f.Name,
			Description: f.Description,
			Status:      "failed",
			Error:       f.Error,
		})
	}

	if c.TotalDatasets > 0 {
		c.SuccessRate = round2(float64(c.SuccessfulComparisons) / float64(c.TotalDatasets) * 100)
	}
	if c.SuccessfulComparisons > 0 {
		c.AverageProcessingSeconds = c.TotalProcessingSeconds / float64(c.SuccessfulComparisons)
	}
	return c
}
