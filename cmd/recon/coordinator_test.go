package recon

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func coordinatorTables(t *testing.T, srcRows, dstRows int) (*Table, *Table) {
	t.Helper()
	columns := []Column{{Name: "id", Type: "integer"}, {Name: "name", Type: "text"}}
	build := func(name string, n int) *Table {
		rows := make([][]interface{}, n)
		for i := range rows {
			rows[i] = []interface{}{i, "row"}
		}
		return mustTable(t, name, columns, rows)
	}
	return build("src", srcRows), build("dst", dstRows)
}

func TestCompareChunkPairs(t *testing.T) {
	t.Run("AllChunksCompareAndSort", func(t *testing.T) {
		src, dst := coordinatorTables(t, 100, 100)
		pairs, err := PairChunks(src, dst, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		results, err := CompareChunkPairs(context.Background(), src, dst, pairs, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 10 {
			t.Fatalf("expected 10 results, got %d", len(results))
		}
		for i, r := range results {
			if r.ChunkID != i {
				t.Fatalf("results must be sorted by chunk id, got %d at position %d", r.ChunkID, i)
			}
			if r.Failed() {
				t.Fatalf("chunk %d failed: %s", r.ChunkID, r.Error)
			}
			if r.Matches != 10 {
				t.Fatalf("chunk %d expected 10 matches, got %d", r.ChunkID, r.Matches)
			}
		}
	})

	t.Run("SingleWorker", func(t *testing.T) {
		src, dst := coordinatorTables(t, 30, 30)
		pairs, _ := PairChunks(src, dst, 10)

		results, err := CompareChunkPairs(context.Background(), src, dst, pairs, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
	})

	t.Run("InvalidParallelism", func(t *testing.T) {
		src, dst := coordinatorTables(t, 10, 10)
		if _, err := CompareChunkPairs(context.Background(), src, dst, nil, 0); !errors.Is(err, ErrMaxParallelismInvalid) {
			t.Fatalf("expected ErrMaxParallelismInvalid, got %v", err)
		}
	})

	t.Run("CancelledContextStillYieldsEveryChunk", func(t *testing.T) {
		src, dst := coordinatorTables(t, 50, 50)
		pairs, _ := PairChunks(src, dst, 10)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := CompareChunkPairs(ctx, src, dst, pairs, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(pairs) {
			t.Fatalf("every chunk must be accounted for, got %d of %d", len(results), len(pairs))
		}
		for _, r := range results {
			if !r.Failed() {
				t.Fatalf("chunk %d should carry the cancellation error", r.ChunkID)
			}
			if !strings.Contains(r.Error, context.Canceled.Error()) {
				t.Fatalf("chunk %d has unexpected error: %s", r.ChunkID, r.Error)
			}
		}
	})

	t.Run("NoPairs", func(t *testing.T) {
		src, dst := coordinatorTables(t, 0, 0)
		results, err := CompareChunkPairs(context.Background(), src, dst, nil, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected no results, got %d", len(results))
		}
	})
}
