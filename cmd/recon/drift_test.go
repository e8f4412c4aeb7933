package recon

import "testing"

func driftTable(t *testing.T, name string, scale float64) *Table {
	t.Helper()
	columns := []Column{
		{Name: "amount", Type: "double"},
		{Name: "label", Type: "text"},
	}
	base := []float64{90, 95, 100, 105, 110}
	rows := make([][]interface{}, len(base))
	for i, v := range base {
		rows[i] = []interface{}{v * scale, "x"}
	}
	return mustTable(t, name, columns, rows)
}

func TestDetectDrift(t *testing.T) {
	t.Run("MeanShiftAboveThreshold", func(t *testing.T) {
		src := driftTable(t, "src", 1.0)
		dst := driftTable(t, "dst", 1.15)

		report, err := DetectDrift(src, dst, 1000, NewSampler())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.DriftDetected {
			t.Fatal("a 15% mean shift should be flagged")
		}
		if len(report.ColumnsWithDrift) != 1 || report.ColumnsWithDrift[0] != "amount" {
			t.Fatalf("expected drift on amount only, got %v", report.ColumnsWithDrift)
		}

		var amount *ColumnDrift
		for i := range report.Columns {
			if report.Columns[i].Column == "amount" {
				amount = &report.Columns[i]
			}
		}
		if amount == nil {
			t.Fatal("amount column missing from the report")
		}
		foundMeanChange := false
		for _, ind := range amount.Indicators {
			if ind.Type == "mean_change" {
				foundMeanChange = true
				if ind.Threshold != 10.0 {
					t.Fatalf("unexpected mean threshold: %.1f", ind.Threshold)
				}
			}
			if ind.Type == "stddev_change" {
				t.Fatal("a uniform 15% scale keeps the stddev shift under its threshold")
			}
		}
		if !foundMeanChange {
			t.Fatalf("expected a mean_change indicator, got %+v", amount.Indicators)
		}
	})

	t.Run("SmallShiftBelowThreshold", func(t *testing.T) {
		src := driftTable(t, "src", 1.0)
		dst := driftTable(t, "dst", 1.05)

		report, err := DetectDrift(src, dst, 1000, NewSampler())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.DriftDetected {
			t.Fatalf("a 5%% shift is under every threshold: %+v", report.ColumnsWithDrift)
		}
	})

	t.Run("IdenticalSides", func(t *testing.T) {
		src := driftTable(t, "src", 1.0)
		dst := driftTable(t, "dst", 1.0)

		report, err := DetectDrift(src, dst, 1000, NewSampler())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.DriftDetected || report.DriftPercentage != 0 {
			t.Fatalf("identical sides should show no drift: %+v", report)
		}
		if report.TotalColumnsChecked != 2 {
			t.Fatalf("both common columns should be checked, got %d", report.TotalColumnsChecked)
		}
	})

	t.Run("TextColumnNeverDrifts", func(t *testing.T) {
		src := driftTable(t, "src", 1.0)
		dst := driftTable(t, "dst", 1.5)

		report, err := DetectDrift(src, dst, 1000, NewSampler())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, col := range report.ColumnsWithDrift {
			if col == "label" {
				t.Fatal("the text column cannot carry drift indicators")
			}
		}
	})
}
