package recon

import (
	"fmt"
	"math"
)

// statTolerance is the absolute difference below which two numeric
// statistics are considered equal, to keep floating-point noise from
// flagging mismatches.
const statTolerance = 0.01

// ColumnStatistics holds the descriptive statistics of one column.
// The numeric fields are nil when the column's values cannot be
// interpreted numerically.
type ColumnStatistics struct {
	Column         string   `json:"column"`
	TotalCount     int      `json:"total_count"`
	NullCount      int      `json:"null_count"`
	DistinctCount  int      `json:"distinct_count"`
	NullPercentage float64  `json:"null_percentage"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Mean           *float64 `json:"mean,omitempty"`
	StdDev         *float64 `json:"stddev,omitempty"`
}

// ColumnStats computes counts, distinctness and, when every non-null value
// has a numeric interpretation, min/max/mean/stddev for one column.
func ColumnStats(src Source, column string) (ColumnStatistics, error) {
	found := false
	for _, c := range src.Columns() {
		if c.Name == column {
			found = true
			break
		}
	}
	if !found {
		return ColumnStatistics{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	stats := ColumnStatistics{Column: column, TotalCount: src.RowCount()}
	distinct := make(map[string]struct{})
	var values []float64
	numeric := true

	for row := 0; row < stats.TotalCount; row++ {
		v, _ := src.ValueAt(row, column)
		if v == nil {
			stats.NullCount++
			continue
		}
		distinct[canonicalString(v)] = struct{}{}
		if f, ok := toFloat(v); ok {
			values = append(values, f)
		} else if !isNaNValue(v) {
			numeric = false
		}
	}
	stats.DistinctCount = len(distinct)
	if stats.TotalCount > 0 {
		stats.NullPercentage = round2(float64(stats.NullCount) / float64(stats.TotalCount) * 100)
	}

	if numeric && len(values) > 0 {
		min, max, mean, stddev := describe(values)
		stats.Min = &min
		stats.Max = &max
		stats.Mean = &mean
		if len(values) > 1 {
			stats.StdDev = &stddev
		}
	}
	return stats, nil
}

// isNaNValue reports whether v is a numeric not-a-number: still a numeric
// value for column classification, but excluded from aggregates.
func isNaNValue(v interface{}) bool {
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// describe returns min, max, mean and sample standard deviation.
func describe(values []float64) (min, max, mean, stddev float64) {
	min = values[0]
	max = values[0]
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean = sum / float64(len(values))
	if len(values) > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		stddev = math.Sqrt(ss / float64(len(values)-1))
	}
	return min, max, mean, stddev
}

// TypeDifference records a declared-type mismatch on a common column.
type TypeDifference struct {
	Column          string `json:"column"`
	SourceType      string `json:"source_type"`
	DestinationType string `json:"destination_type"`
}

// SchemaComparison partitions columns by name and compares declared types
// for the common ones.
type SchemaComparison struct {
	CommonColumns     []string         `json:"common_columns"`
	OnlyInSource      []string         `json:"only_in_source"`
	OnlyInDestination []string         `json:"only_in_destination"`
	TypeDifferences   []TypeDifference `json:"type_differences"`
	SchemaMatch       bool             `json:"schema_match"`
}

// CompareSchemas compares the two sides' column sets by name
// (case-sensitive) and declared type strings by exact equality.
func CompareSchemas(source, destination Source) SchemaComparison {
	srcTypes := make(map[string]string)
	for _, c := range source.Columns() {
		srcTypes[c.Name] = c.Type
	}
	dstTypes := make(map[string]string)
	for _, c := range destination.Columns() {
		dstTypes[c.Name] = c.Type
	}

	result := SchemaComparison{}
	for _, c := range source.Columns() {
		dstType, ok := dstTypes[c.Name]
		if !ok {
			result.OnlyInSource = append(result.OnlyInSource, c.Name)
			continue
		}
		result.CommonColumns = append(result.CommonColumns, c.Name)
		if c.Type != dstType {
			result.TypeDifferences = append(result.TypeDifferences, TypeDifference{
				Column:          c.Name,
				SourceType:      c.Type,
				DestinationType: dstType,
			})
		}
	}
	for _, c := range destination.Columns() {
		if _, ok := srcTypes[c.Name]; !ok {
			result.OnlyInDestination = append(result.OnlyInDestination, c.Name)
		}
	}

	result.SchemaMatch = len(result.TypeDifferences) == 0 &&
		len(result.OnlyInSource) == 0 &&
		len(result.OnlyInDestination) == 0
	return result
}

// NullCountDifference reports one common column whose null counts differ.
type NullCountDifference struct {
	Column                string  `json:"column"`
	SourceNulls           int     `json:"source_nulls"`
	DestinationNulls      int     `json:"destination_nulls"`
	SourcePercentage      float64 `json:"source_percentage"`
	DestinationPercentage float64 `json:"destination_percentage"`
	Difference            int     `json:"difference"`
}

// NullCountComparison lists the per-column null-count differences.
type NullCountComparison struct {
	Differences []NullCountDifference `json:"differences"`
	Match       bool                  `json:"match"`
}

// CompareNullCounts reports, for each common column, the difference and
// per-side percentage whenever the absolute null counts differ.
func CompareNullCounts(source, destination Source, common []string) NullCountComparison {
	srcRows := source.RowCount()
	dstRows := destination.RowCount()

	result := NullCountComparison{}
	for _, col := range common {
		srcNulls := countNulls(source, col)
		dstNulls := countNulls(destination, col)
		if srcNulls == dstNulls {
			continue
		}
		diff := NullCountDifference{
			Column:           col,
			SourceNulls:      srcNulls,
			DestinationNulls: dstNulls,
			Difference:       dstNulls - srcNulls,
		}
		if srcRows > 0 {
			diff.SourcePercentage = round2(float64(srcNulls) / float64(srcRows) * 100)
		}
		if dstRows > 0 {
			diff.DestinationPercentage = round2(float64(dstNulls) / float64(dstRows) * 100)
		}
		result.Differences = append(result.Differences, diff)
	}
	result.Match = len(result.Differences) == 0
	return result
}

func countNulls(src Source, column string) int {
	nulls := 0
	for row := 0; row < src.RowCount(); row++ {
		if v, _ := src.ValueAt(row, column); v == nil {
			nulls++
		}
	}
	return nulls
}

// CountComparison compares one integer property of the two sides.
type CountComparison struct {
	Source      int  `json:"source"`
	Destination int  `json:"destination"`
	Difference  int  `json:"difference"`
	Match       bool `json:"match"`
}

func compareCounts(src, dst int) CountComparison {
	return CountComparison{
		Source:      src,
		Destination: dst,
		Difference:  dst - src,
		Match:       src == dst,
	}
}

// MetadataComparison is the phase-1 result: schema, null counts, row count
// and column count, with the overall conjunction of all four.
type MetadataComparison struct {
	OverallMatch bool                `json:"overall_match"`
	RowCounts    CountComparison     `json:"row_count_comparison"`
	ColumnCounts CountComparison     `json:"column_count_comparison"`
	Schema       SchemaComparison    `json:"schema_comparison"`
	NullCounts   NullCountComparison `json:"null_count_comparison"`
}

// CompareMetadata runs the full metadata comparison between two sources.
// All four checks must hold for the overall match.
func CompareMetadata(source, destination Source) MetadataComparison {
	schema := CompareSchemas(source, destination)
	nulls := CompareNullCounts(source, destination, schema.CommonColumns)
	rows := compareCounts(source.RowCount(), destination.RowCount())
	cols := compareCounts(len(source.Columns()), len(destination.Columns()))

	return MetadataComparison{
		OverallMatch: schema.SchemaMatch && nulls.Match && rows.Match && cols.Match,
		RowCounts:    rows,
		ColumnCounts: cols,
		Schema:       schema,
		NullCounts:   nulls,
	}
}

// StatDifference records one statistic whose values diverge between sides.
type StatDifference struct {
	Metric      string  `json:"metric"`
	Source      float64 `json:"source"`
	Destination float64 `json:"destination"`
	Difference  float64 `json:"difference"`
}

// StatisticsComparison is the outcome of comparing one column's
// statistics across the two sides.
type StatisticsComparison struct {
	Differences []StatDifference `json:"differences"`
	Match       bool             `json:"match"`
}

// CompareColumnStatistics compares two columns' statistics. Integer counts
// must match exactly; numeric statistics are compared under an absolute
// tolerance and only when present on both sides.
func CompareColumnStatistics(source, destination ColumnStatistics) StatisticsComparison {
	result := StatisticsComparison{}

	intMetrics := []struct {
		name     string
		src, dst int
	}{
		{"total_count", source.TotalCount, destination.TotalCount},
		{"null_count", source.NullCount, destination.NullCount},
		{"distinct_count", source.DistinctCount, destination.DistinctCount},
	}
	for _, m := range intMetrics {
		if m.src != m.dst {
			result.Differences = append(result.Differences, StatDifference{
				Metric:      m.name,
				Source:      float64(m.src),
				Destination: float64(m.dst),
				Difference:  float64(m.dst - m.src),
			})
		}
	}

	floatMetrics := []struct {
		name     string
		src, dst *float64
	}{
		{"min", source.Min, destination.Min},
		{"max", source.Max, destination.Max},
		{"mean", source.Mean, destination.Mean},
		{"stddev", source.StdDev, destination.StdDev},
	}
	for _, m := range floatMetrics {
		if m.src == nil || m.dst == nil {
			continue
		}
		if math.Abs(*m.src-*m.dst) > statTolerance {
			result.Differences = append(result.Differences, StatDifference{
				Metric:      m.name,
				Source:      *m.src,
				Destination: *m.dst,
				Difference:  *m.dst - *m.src,
			})
		}
	}

	result.Match = len(result.Differences) == 0
	return result
}

// ColumnComparison pairs both sides' statistics for one common column.
type ColumnComparison struct {
	Column           string               `json:"column"`
	SourceStats      ColumnStatistics     `json:"source_stats"`
	DestinationStats ColumnStatistics     `json:"destination_stats"`
	Comparison       StatisticsComparison `json:"comparison"`
	Error            string               `json:"error,omitempty"`
}

// CompareColumns computes and compares statistics for every listed common
// column. A failure on one column is recorded on that column's entry and
// does not abort the rest.
func CompareColumns(source, destination Source, common []string) []ColumnComparison {
	comparisons := make([]ColumnComparison, 0, len(common))
	for _, col := range common {
		entry := ColumnComparison{Column: col}
		srcStats, err := ColumnStats(source, col)
		if err == nil {
			var dstStats ColumnStatistics
			dstStats, err = ColumnStats(destination, col)
			if err == nil {
				entry.SourceStats = srcStats
				entry.DestinationStats = dstStats
				entry.Comparison = CompareColumnStatistics(srcStats, dstStats)
			}
		}
		if err != nil {
			entry.Error = err.Error()
		}
		comparisons = append(comparisons, entry)
	}
	return comparisons
}
