package recon

import "math"

// Drift thresholds: percentage change in a column's central tendency or
// dispersion beyond which the column is flagged.
const (
	meanDriftThreshold   = 10.0
	stddevDriftThreshold = 20.0
)

// DriftIndicator names one statistical shift that exceeded its threshold.
type DriftIndicator struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// ColumnDrift is the drift verdict for a single column. Non-numeric
// columns are recorded with no indicators and never count as drifted.
type ColumnDrift struct {
	Column            string           `json:"column"`
	DriftDetected     bool             `json:"drift_detected"`
	Indicators        []DriftIndicator `json:"indicators,omitempty"`
	SourceMean        *float64         `json:"source_mean,omitempty"`
	SourceStdDev      *float64         `json:"source_stddev,omitempty"`
	DestinationMean   *float64         `json:"destination_mean,omitempty"`
	DestinationStdDev *float64         `json:"destination_stddev,omitempty"`
}

// DriftReport summarizes drift across all common columns of one dataset
// pair. It is informational: drift never contributes to the pair's overall
// match verdict.
type DriftReport struct {
	DriftDetected       bool          `json:"drift_detected"`
	ColumnsWithDrift    []string      `json:"columns_with_drift,omitempty"`
	TotalColumnsChecked int           `json:"total_columns_checked"`
	DriftPercentage     float64       `json:"drift_percentage"`
	SampleSize          int           `json:"sample_size"`
	Columns             []ColumnDrift `json:"columns"`
}

// DetectDrift draws an independent random sample from each side and
// compares per-column mean and standard deviation. A mean shift above 10%
// of the baseline mean flags mean_change; a stddev shift above 20% flags
// stddev_change. A column has drift when either indicator fires.
func DetectDrift(source, destination Source, sampleSize int, sampler *Sampler) (DriftReport, error) {
	if sampler == nil {
		sampler = NewSampler()
	}
	srcSample, err := sampler.Sample(source, sampleSize, StrategyRandom, "")
	if err != nil {
		return DriftReport{}, err
	}
	dstSample, err := sampler.Sample(destination, sampleSize, StrategyRandom, "")
	if err != nil {
		return DriftReport{}, err
	}

	common := commonColumns(srcSample, dstSample)
	report := DriftReport{
		TotalColumnsChecked: len(common),
		SampleSize:          sampleSize,
	}

	for _, col := range common {
		drift := compareColumnDrift(col, srcSample, dstSample)
		if drift.DriftDetected {
			report.ColumnsWithDrift = append(report.ColumnsWithDrift, col)
		}
		report.Columns = append(report.Columns, drift)
	}

	report.DriftDetected = len(report.ColumnsWithDrift) > 0
	if len(common) > 0 {
		report.DriftPercentage = round2(float64(len(report.ColumnsWithDrift)) / float64(len(common)) * 100)
	}
	return report, nil
}

func compareColumnDrift(column string, source, destination Source) ColumnDrift {
	drift := ColumnDrift{Column: column}

	srcStats, err1 := ColumnStats(source, column)
	dstStats, err2 := ColumnStats(destination, column)
	if err1 != nil || err2 != nil {
		return drift
	}
	drift.SourceMean = srcStats.Mean
	drift.SourceStdDev = srcStats.StdDev
	drift.DestinationMean = dstStats.Mean
	drift.DestinationStdDev = dstStats.StdDev

	if srcStats.Mean != nil && dstStats.Mean != nil && *srcStats.Mean != 0 {
		change := math.Abs(*dstStats.Mean-*srcStats.Mean) / math.Abs(*srcStats.Mean) * 100
		if change > meanDriftThreshold {
			drift.Indicators = append(drift.Indicators, DriftIndicator{
				Type:      "mean_change",
				Value:     round2(change),
				Threshold: meanDriftThreshold,
			})
		}
	}
	if srcStats.StdDev != nil && dstStats.StdDev != nil && *srcStats.StdDev != 0 {
		change := math.Abs(*dstStats.StdDev-*srcStats.StdDev) / *srcStats.StdDev * 100
		if change > stddevDriftThreshold {
			drift.Indicators = append(drift.Indicators, DriftIndicator{
				Type:      "stddev_change",
				Value:     round2(change),
				Threshold: stddevDriftThreshold,
			})
		}
	}

	drift.DriftDetected = len(drift.Indicators) > 0
	return drift
}
