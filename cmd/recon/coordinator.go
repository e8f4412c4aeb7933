package recon

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// CompareChunkPairs runs CompareChunks over every chunk pair with at most
// maxParallelism comparisons in flight. Each task always yields exactly one
// ChunkResult: a failure (including a panic inside a comparison) becomes an
// error-carrying result and never aborts sibling tasks. Results are sorted
// by chunk id before being returned, so downstream aggregation is
// deterministic regardless of scheduling order.
func CompareChunkPairs(ctx context.Context, source, destination Source, pairs []ChunkPair, maxParallelism int) ([]ChunkResult, error) {
	if maxParallelism <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrMaxParallelismInvalid, maxParallelism)
	}

	src := Materialize("source", source)
	dst := Materialize("destination", destination)

	results := make(chan ChunkResult, len(pairs))
	sem := make(chan struct{}, maxParallelism)
	var wg sync.WaitGroup

	for _, pair := range pairs {
		wg.Add(1)
		go func(pair ChunkPair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// A cancelled run abandons work not yet started; the
			// chunk still gets a result so every id is accounted for.
			if err := ctx.Err(); err != nil {
				results <- errorChunkResult(pair.Source.ID, err.Error())
				return
			}
			results <- compareChunkPair(src, dst, pair)
		}(pair)
	}

	wg.Wait()
	close(results)

	collected := make([]ChunkResult, 0, len(pairs))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].ChunkID < collected[j].ChunkID })
	return collected, nil
}

// compareChunkPair slices both sides and runs the comparison, converting a
// panic into an error result so one bad chunk cannot take down the pool.
func compareChunkPair(src, dst *Table, pair ChunkPair) (result ChunkResult) {
	defer func() {
		if r := recover(); r != nil {
			result = errorChunkResult(pair.Source.ID, fmt.Sprintf("chunk comparison panicked: %v", r))
		}
	}()
	return CompareChunks(pair.Source.ID, src.Slice(pair.Source.Lo, pair.Source.Hi), dst.Slice(pair.Destination.Lo, pair.Destination.Hi))
}
