package recon

import (
	"strings"
	"testing"
)

func TestAggregateChunkResults(t *testing.T) {
	t.Run("AllChunksMatch", func(t *testing.T) {
		results := []ChunkResult{
			{ChunkID: 0, Matches: 100, TotalRows: 200},
			{ChunkID: 1, Matches: 50, TotalRows: 100},
		}
		agg := AggregateChunkResults(results)
		if !agg.DatasetsMatch {
			t.Fatalf("no differences and no failures should match: %+v", agg)
		}
		if agg.TotalMatches != 150 || agg.TotalRowsProcessed != 300 {
			t.Fatalf("unexpected totals: %+v", agg)
		}
		if agg.MatchPercentage != 50.0 {
			t.Fatalf("percentage is against processed rows net of differences, got %.2f", agg.MatchPercentage)
		}
	})

	t.Run("DifferencesBreakTheMatch", func(t *testing.T) {
		results := []ChunkResult{
			{ChunkID: 0, Matches: 90, OnlyInSource: 10, TotalRows: 200},
		}
		agg := AggregateChunkResults(results)
		if agg.DatasetsMatch {
			t.Fatal("source-only rows should fail the dataset match")
		}
		if agg.TotalDifferences != 10 {
			t.Fatalf("expected 10 differences, got %d", agg.TotalDifferences)
		}
	})

	t.Run("FailedChunkBreaksTheMatch", func(t *testing.T) {
		results := []ChunkResult{
			{ChunkID: 0, Matches: 100, TotalRows: 200},
			{ChunkID: 1, Error: "source unreachable"},
		}
		agg := AggregateChunkResults(results)
		if agg.DatasetsMatch {
			t.Fatal("a failed chunk should fail the dataset match even with zero differences")
		}
		if agg.SuccessfulChunks != 1 || agg.FailedChunks != 1 {
			t.Fatalf("unexpected chunk counts: %+v", agg)
		}
		if len(agg.Errors) != 1 || !strings.Contains(agg.Errors[0], "source unreachable") {
			t.Fatalf("failed chunk error should be collected: %v", agg.Errors)
		}
	})

	t.Run("MatchesNeverExceedRows", func(t *testing.T) {
		columns := []Column{{Name: "id", Type: "integer"}}
		rows := make([][]interface{}, 57)
		for i := range rows {
			rows[i] = []interface{}{i}
		}
		src := mustTable(t, "src", columns, rows)
		dst := mustTable(t, "dst", columns, rows[:40])

		pairs, err := PairChunks(src, dst, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var results []ChunkResult
		for _, p := range pairs {
			results = append(results, compareChunkPair(src, dst, p))
		}
		agg := AggregateChunkResults(results)
		if agg.TotalMatches+agg.TotalDifferences > agg.TotalRowsProcessed {
			t.Fatalf("matches plus differences exceed processed rows: %+v", agg)
		}
	})

	t.Run("NoChunks", func(t *testing.T) {
		agg := AggregateChunkResults(nil)
		if !agg.DatasetsMatch {
			t.Fatal("zero chunks carry zero differences")
		}
		if agg.MatchPercentage != 0 {
			t.Fatalf("nothing processed scores zero, got %.2f", agg.MatchPercentage)
		}
	})
}

func TestOverallMatch(t *testing.T) {
	matching := func() *DatasetComparisonResult {
		return &DatasetComparisonResult{
			Metadata:     &MetadataComparison{OverallMatch: true},
			Fingerprints: &FingerprintComparison{FingerprintsMatch: true},
			Full:         &FullComparisonResult{DatasetsMatch: true},
		}
	}

	t.Run("AllPhasesAgree", func(t *testing.T) {
		if !matching().OverallMatch() {
			t.Fatal("all phases matching should produce an overall match")
		}
	})

	t.Run("MissingPhaseCountsAsMismatch", func(t *testing.T) {
		r := matching()
		r.Full = nil
		if r.OverallMatch() {
			t.Fatal("a phase that did not run cannot attest a match")
		}
	})

	t.Run("FailingPhaseCountsAsMismatch", func(t *testing.T) {
		r := matching()
		r.Fingerprints.FingerprintsMatch = false
		if r.OverallMatch() {
			t.Fatal("a failing fingerprint verdict should break the overall match")
		}
	})
}

func TestConsolidate(t *testing.T) {
	success := &DatasetComparisonResult{
		Name:         "orders",
		Metadata:     &MetadataComparison{OverallMatch: true, RowCounts: CountComparison{Source: 100, Destination: 100}},
		Fingerprints: &FingerprintComparison{FingerprintsMatch: true},
		Full:         &FullComparisonResult{DatasetsMatch: true},

		ProcessingSeconds: 2.0,
	}
	mismatch := &DatasetComparisonResult{
		Name:              "events",
		Metadata:          &MetadataComparison{OverallMatch: false, RowCounts: CountComparison{Source: 50, Destination: 40}},
		Fingerprints:      &FingerprintComparison{FingerprintsMatch: false},
		Full:              &FullComparisonResult{DatasetsMatch: false},
		ProcessingSeconds: 4.0,
	}
	failure := FailedComparison{Name: "inventory", Error: "connection refused"}

	t.Run("MixedBatch", func(t *testing.T) {
		c := Consolidate([]*DatasetComparisonResult{success, mismatch}, []FailedComparison{failure})
		if c.TotalDatasets != 3 || c.SuccessfulComparisons != 2 || c.FailedComparisons != 1 {
			t.Fatalf("unexpected batch counts: %+v", c)
		}
		if c.OverallMatch {
			t.Fatal("a mismatching or failed pair should break the batch match")
		}
		if len(c.Summaries) != 3 {
			t.Fatalf("expected a summary per pair, got %d", len(c.Summaries))
		}
		if c.Summaries[2].Status != "failed" || c.Summaries[2].Error == "" {
			t.Fatalf("failed pair summary is wrong: %+v", c.Summaries[2])
		}
		if c.TotalRowsProcessed != 290 {
			t.Fatalf("rows are counted from both sides' metadata, got %d", c.TotalRowsProcessed)
		}
		if c.TotalProcessingSeconds != 6.0 {
			t.Fatalf("expected 6s total, got %.2f", c.TotalProcessingSeconds)
		}
	})

	t.Run("AllMatching", func(t *testing.T) {
		c := Consolidate([]*DatasetComparisonResult{success}, nil)
		if !c.OverallMatch {
			t.Fatal("a batch of matching pairs should match overall")
		}
		if c.SuccessRate != 100.0 {
			t.Fatalf("expected 100%% success rate, got %.2f", c.SuccessRate)
		}
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		c := Consolidate(nil, nil)
		if c.TotalDatasets != 0 {
			t.Fatalf("unexpected count: %d", c.TotalDatasets)
		}
	})
}
