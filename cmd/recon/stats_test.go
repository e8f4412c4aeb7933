package recon

import (
	"errors"
	"math"
	"testing"
)

func TestColumnStats(t *testing.T) {
	columns := []Column{
		{Name: "amount", Type: "double"},
		{Name: "label", Type: "text"},
	}

	t.Run("NumericColumn", func(t *testing.T) {
		table := mustTable(t, "t", columns, [][]interface{}{
			{10.0, "x"},
			{20.0, "y"},
			{30.0, "x"},
			{nil, "z"},
		})

		stats, err := ColumnStats(table, "amount")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.TotalCount != 4 || stats.NullCount != 1 || stats.DistinctCount != 3 {
			t.Fatalf("unexpected counts: %+v", stats)
		}
		if stats.NullPercentage != 25.0 {
			t.Fatalf("expected 25%% nulls, got %.2f", stats.NullPercentage)
		}
		if stats.Min == nil || *stats.Min != 10.0 {
			t.Fatalf("expected min 10, got %v", stats.Min)
		}
		if stats.Max == nil || *stats.Max != 30.0 {
			t.Fatalf("expected max 30, got %v", stats.Max)
		}
		if stats.Mean == nil || *stats.Mean != 20.0 {
			t.Fatalf("expected mean 20, got %v", stats.Mean)
		}
		if stats.StdDev == nil || math.Abs(*stats.StdDev-10.0) > 1e-9 {
			t.Fatalf("expected sample stddev 10, got %v", stats.StdDev)
		}
	})

	t.Run("TextColumnHasNoAggregates", func(t *testing.T) {
		table := mustTable(t, "t", columns, [][]interface{}{
			{10.0, "x"},
			{20.0, "y"},
		})
		stats, err := ColumnStats(table, "label")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Min != nil || stats.Mean != nil {
			t.Fatalf("text column should carry no numeric aggregates: %+v", stats)
		}
	})

	t.Run("NaNExcludedFromAggregates", func(t *testing.T) {
		table := mustTable(t, "t", columns, [][]interface{}{
			{10.0, "x"},
			{nan(), "y"},
			{30.0, "z"},
		})
		stats, err := ColumnStats(table, "amount")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Mean == nil || *stats.Mean != 20.0 {
			t.Fatalf("NaN must not poison the mean, got %v", stats.Mean)
		}
	})

	t.Run("SingleValueHasNoStdDev", func(t *testing.T) {
		table := mustTable(t, "t", columns, [][]interface{}{{5.0, "x"}})
		stats, err := ColumnStats(table, "amount")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.StdDev != nil {
			t.Fatalf("one value has no sample stddev, got %v", stats.StdDev)
		}
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		table := mustTable(t, "t", columns, nil)
		if _, err := ColumnStats(table, "missing"); !errors.Is(err, ErrColumnNotFound) {
			t.Fatalf("expected ErrColumnNotFound, got %v", err)
		}
	})
}

func TestCompareSchemas(t *testing.T) {
	t.Run("IdenticalSchemas", func(t *testing.T) {
		columns := []Column{{Name: "id", Type: "integer"}, {Name: "name", Type: "text"}}
		src := mustTable(t, "src", columns, nil)
		dst := mustTable(t, "dst", columns, nil)

		result := CompareSchemas(src, dst)
		if !result.SchemaMatch {
			t.Fatalf("identical schemas should match: %+v", result)
		}
		if len(result.CommonColumns) != 2 {
			t.Fatalf("expected 2 common columns, got %v", result.CommonColumns)
		}
	})

	t.Run("MissingAndExtraColumns", func(t *testing.T) {
		src := mustTable(t, "src", []Column{{Name: "id", Type: "integer"}, {Name: "src_only", Type: "text"}}, nil)
		dst := mustTable(t, "dst", []Column{{Name: "id", Type: "integer"}, {Name: "dst_only", Type: "text"}}, nil)

		result := CompareSchemas(src, dst)
		if result.SchemaMatch {
			t.Fatal("differing column sets should not match")
		}
		if len(result.OnlyInSource) != 1 || result.OnlyInSource[0] != "src_only" {
			t.Fatalf("unexpected source-only columns: %v", result.OnlyInSource)
		}
		if len(result.OnlyInDestination) != 1 || result.OnlyInDestination[0] != "dst_only" {
			t.Fatalf("unexpected destination-only columns: %v", result.OnlyInDestination)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		src := mustTable(t, "src", []Column{{Name: "id", Type: "integer"}}, nil)
		dst := mustTable(t, "dst", []Column{{Name: "id", Type: "text"}}, nil)

		result := CompareSchemas(src, dst)
		if result.SchemaMatch {
			t.Fatal("a type mismatch should break the match")
		}
		if len(result.TypeDifferences) != 1 || result.TypeDifferences[0].Column != "id" {
			t.Fatalf("unexpected type differences: %+v", result.TypeDifferences)
		}
	})
}

func TestCompareMetadata(t *testing.T) {
	columns := []Column{{Name: "id", Type: "integer"}, {Name: "name", Type: "text"}}

	t.Run("IdenticalTables", func(t *testing.T) {
		rows := [][]interface{}{{1, "alice"}, {2, nil}}
		src := mustTable(t, "src", columns, rows)
		dst := mustTable(t, "dst", columns, rows)

		result := CompareMetadata(src, dst)
		if !result.OverallMatch {
			t.Fatalf("identical tables should match on metadata: %+v", result)
		}
		if !result.RowCounts.Match || !result.ColumnCounts.Match || !result.NullCounts.Match {
			t.Fatalf("all component checks should pass: %+v", result)
		}
	})

	t.Run("RowCountMismatch", func(t *testing.T) {
		src := mustTable(t, "src", columns, [][]interface{}{{1, "alice"}, {2, "bob"}})
		dst := mustTable(t, "dst", columns, [][]interface{}{{1, "alice"}})

		result := CompareMetadata(src, dst)
		if result.OverallMatch {
			t.Fatal("differing row counts should fail the metadata comparison")
		}
		if result.RowCounts.Difference != -1 {
			t.Fatalf("difference is destination minus source, got %d", result.RowCounts.Difference)
		}
	})

	t.Run("NullCountMismatch", func(t *testing.T) {
		src := mustTable(t, "src", columns, [][]interface{}{{1, "alice"}})
		dst := mustTable(t, "dst", columns, [][]interface{}{{1, nil}})

		result := CompareMetadata(src, dst)
		if result.OverallMatch || result.NullCounts.Match {
			t.Fatalf("a null count difference should fail the comparison: %+v", result)
		}
		if len(result.NullCounts.Differences) != 1 || result.NullCounts.Differences[0].Column != "name" {
			t.Fatalf("unexpected null count differences: %+v", result.NullCounts.Differences)
		}
	})
}

func TestCompareColumnStatistics(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	t.Run("WithinTolerance", func(t *testing.T) {
		src := ColumnStatistics{Column: "a", TotalCount: 10, Mean: f(5.0), StdDev: f(1.0)}
		dst := ColumnStatistics{Column: "a", TotalCount: 10, Mean: f(5.005), StdDev: f(1.0)}

		result := CompareColumnStatistics(src, dst)
		if !result.Match {
			t.Fatalf("a drift under the tolerance should match: %+v", result.Differences)
		}
	})

	t.Run("MeanBeyondTolerance", func(t *testing.T) {
		src := ColumnStatistics{Column: "a", TotalCount: 10, Mean: f(5.0)}
		dst := ColumnStatistics{Column: "a", TotalCount: 10, Mean: f(5.5)}

		result := CompareColumnStatistics(src, dst)
		if result.Match {
			t.Fatal("a mean shift beyond the tolerance should not match")
		}
		if len(result.Differences) != 1 || result.Differences[0].Metric != "mean" {
			t.Fatalf("unexpected differences: %+v", result.Differences)
		}
	})

	t.Run("IntegerCountsCompareExactly", func(t *testing.T) {
		src := ColumnStatistics{Column: "a", TotalCount: 10, NullCount: 0}
		dst := ColumnStatistics{Column: "a", TotalCount: 10, NullCount: 1}

		result := CompareColumnStatistics(src, dst)
		if result.Match {
			t.Fatal("differing null counts should not match")
		}
	})

	t.Run("MissingStatisticIsSkipped", func(t *testing.T) {
		src := ColumnStatistics{Column: "a", TotalCount: 10, Mean: f(5.0)}
		dst := ColumnStatistics{Column: "a", TotalCount: 10}

		result := CompareColumnStatistics(src, dst)
		if !result.Match {
			t.Fatalf("a statistic absent on one side is not comparable: %+v", result.Differences)
		}
	})
}

func TestCompareColumns(t *testing.T) {
	columns := []Column{{Name: "id", Type: "integer"}, {Name: "amount", Type: "double"}}
	src := mustTable(t, "src", columns, [][]interface{}{{1, 10.0}, {2, 20.0}})
	dst := mustTable(t, "dst", columns, [][]interface{}{{1, 10.0}, {2, 20.0}})

	comparisons := CompareColumns(src, dst, []string{"id", "amount"})
	if len(comparisons) != 2 {
		t.Fatalf("expected one comparison per column, got %d", len(comparisons))
	}
	for _, c := range comparisons {
		if c.Error != "" {
			t.Fatalf("column %s failed: %s", c.Column, c.Error)
		}
		if !c.Comparison.Match {
			t.Fatalf("column %s should match: %+v", c.Column, c.Comparison.Differences)
		}
	}
}
