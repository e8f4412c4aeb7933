package reports

import (
	"fmt"
	"time"

	"github.com/verityio/data-reconciler/cmd/recon"
)

// slowRunSeconds is the processing time beyond which a performance finding
// and recommendation are emitted.
const (
	slowRunSeconds     = 300.0
	verySlowRunSeconds = 600.0
)

// ExecutiveSummary condenses one pair's comparison into headline numbers.
type ExecutiveSummary struct {
	OverallMatch       bool     `json:"overall_match"`
	ComparisonStatus   string   `json:"comparison_status"`
	SourceRows         int      `json:"source_rows"`
	DestinationRows    int      `json:"destination_rows"`
	RowCountDifference int      `json:"row_count_difference"`
	ProcessingSeconds  float64  `json:"processing_time_seconds"`
	DriftDetected      bool     `json:"data_drift_detected"`
	ColumnsWithDrift   int      `json:"columns_with_drift"`
	KeyFindings        []string `json:"key_findings"`
}

// Recommendation is one actionable follow-up derived from the results.
type Recommendation struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
}

// DatasetReport is the single-pair report document: the raw phase results
// wrapped with a summary and derived guidance.
type DatasetReport struct {
	GeneratedAt     time.Time                      `json:"generated_at"`
	ReportType      string                         `json:"report_type"`
	Summary         ExecutiveSummary               `json:"executive_summary"`
	Result          *recon.DatasetComparisonResult `json:"result"`
	Recommendations []Recommendation               `json:"recommendations"`
}

// BuildDatasetReport assembles the report document for one pair.
func BuildDatasetReport(result *recon.DatasetComparisonResult) DatasetReport {
	return DatasetReport{
		GeneratedAt:     time.Now(),
		ReportType:      "comprehensive_summary",
		Summary:         Summarize(result),
		Result:          result,
		Recommendations: Recommendations(result),
	}
}

// Summarize builds the executive summary for one pair.
func Summarize(result *recon.DatasetComparisonResult) ExecutiveSummary {
	summary := ExecutiveSummary{
		OverallMatch:      result.OverallMatch(),
		ComparisonStatus:  "FAIL",
		ProcessingSeconds: result.ProcessingSeconds,
		KeyFindings:       KeyFindings(result),
	}
	if summary.OverallMatch {
		summary.ComparisonStatus = "PASS"
	}
	if result.Metadata != nil {
		summary.SourceRows = result.Metadata.RowCounts.Source
		summary.DestinationRows = result.Metadata.RowCounts.Destination
		summary.RowCountDifference = result.Metadata.RowCounts.Difference
	}
	if result.Drift != nil {
		summary.DriftDetected = result.Drift.DriftDetected
		summary.ColumnsWithDrift = len(result.Drift.ColumnsWithDrift)
	}
	return summary
}

// KeyFindings lists what a reader should look at first. An empty list of
// problems becomes a single all-clear finding.
func KeyFindings(result *recon.DatasetComparisonResult) []string {
	var findings []string

	if m := result.Metadata; m != nil && !m.OverallMatch {
		findings = append(findings, "Metadata comparison failed - schemas or data types differ")
		if n := len(m.Schema.TypeDifferences); n > 0 {
			findings = append(findings, fmt.Sprintf("Found %d columns with type differences", n))
		}
		if n := len(m.Schema.OnlyInSource); n > 0 {
			findings = append(findings, fmt.Sprintf("Found %d columns only in the source", n))
		}
		if n := len(m.Schema.OnlyInDestination); n > 0 {
			findings = append(findings, fmt.Sprintf("Found %d columns only in the destination", n))
		}
	}

	if f := result.Fingerprints; f != nil && !f.FingerprintsMatch {
		findings = append(findings, fmt.Sprintf("Fingerprint comparison shows only %.2f%% match", f.MatchPercentage))
	}

	if full := result.Full; full != nil && !full.DatasetsMatch {
		findings = append(findings, fmt.Sprintf("Full comparison found %d row differences", full.TotalDifferences))
	}

	if d := result.Drift; d != nil && d.DriftDetected {
		findings = append(findings, fmt.Sprintf("Data drift detected in %d columns: %v", len(d.ColumnsWithDrift), d.ColumnsWithDrift))
	}

	if result.ProcessingSeconds > slowRunSeconds {
		findings = append(findings, "Processing time exceeded 5 minutes - consider optimizing")
	}

	if len(findings) == 0 {
		findings = append(findings, "All comparisons passed - datasets appear to be identical")
	}
	return findings
}

// Recommendations derives follow-up actions from the results.
func Recommendations(result *recon.DatasetComparisonResult) []Recommendation {
	var recs []Recommendation

	if m := result.Metadata; m != nil && !m.OverallMatch {
		recs = append(recs, Recommendation{
			Category:       "Schema",
			Priority:       "High",
			Recommendation: "Review and align schemas between datasets before comparison",
		})
	}
	if result.ProcessingSeconds > verySlowRunSeconds {
		recs = append(recs, Recommendation{
			Category:       "Performance",
			Priority:       "Medium",
			Recommendation: "Consider increasing chunk size or parallelism for better performance",
		})
	}
	if d := result.Drift; d != nil && d.DriftDetected {
		recs = append(recs, Recommendation{
			Category:       "Data Quality",
			Priority:       "High",
			Recommendation: "Investigate data drift in identified columns - may indicate data pipeline issues",
		})
	}
	if full := result.Full; full != nil && !full.DatasetsMatch {
		recs = append(recs, Recommendation{
			Category:       "Data Integrity",
			Priority:       "High",
			Recommendation: "Review data differences and ensure data consistency",
		})
	}
	return recs
}
