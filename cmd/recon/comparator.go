package recon

import "math"

// ChunkResult is the outcome of comparing one chunk pair. It is immutable
// once produced; the coordinator hands ownership to the aggregator.
type ChunkResult struct {
	ChunkID           int      `json:"chunk_id"`
	Matches           int      `json:"matches"`
	OnlyInSource      int      `json:"only_in_source"`
	OnlyInDestination int      `json:"only_in_destination"`
	TotalRows         int      `json:"total_rows"`
	CommonColumns     []string `json:"common_columns,omitempty"`
	MatchPercentage   float64  `json:"match_percentage"`
	Error             string   `json:"error,omitempty"`
}

// Failed reports whether the chunk comparison produced an error.
func (r ChunkResult) Failed() bool { return r.Error != "" }

// errorChunkResult builds the zero-count result the coordinator records
// for a failed task.
func errorChunkResult(chunkID int, msg string) ChunkResult {
	return ChunkResult{ChunkID: chunkID, Error: msg}
}

// CompareChunks compares one chunk from each side by exact content key.
//
// Every row is rendered to a key by joining the canonical string forms of
// the columns common to both sides, in the source's declared column order.
// Keys are matched as a multiset: duplicate keys within a chunk match
// independently per occurrence, up to the smaller multiplicity present on
// each side. Rows without a counterpart are attributed to the side they
// came from.
//
// Two chunks sharing no column names yield a zero-count result carrying a
// descriptive error rather than failing the task.
func CompareChunks(chunkID int, source, destination Source) ChunkResult {
	common := commonColumns(source, destination)
	if len(common) == 0 {
		return errorChunkResult(chunkID, ErrNoCommonColumns.Error())
	}

	srcRows := source.RowCount()
	dstRows := destination.RowCount()

	srcKeys := make(map[string]int, srcRows)
	for r := 0; r < srcRows; r++ {
		srcKeys[contentKey(source, r, common)]++
	}
	dstKeys := make(map[string]int, dstRows)
	for r := 0; r < dstRows; r++ {
		dstKeys[contentKey(destination, r, common)]++
	}

	matches := 0
	onlyInSource := 0
	for key, n := range srcKeys {
		m := dstKeys[key]
		if m < n {
			matches += m
			onlyInSource += n - m
		} else {
			matches += n
		}
	}
	onlyInDestination := 0
	for key, m := range dstKeys {
		if n := srcKeys[key]; m > n {
			onlyInDestination += m - n
		}
	}

	pct := 0.0
	if larger := maxInt(srcRows, dstRows); larger > 0 {
		pct = round2(float64(matches) / float64(larger) * 100)
	}

	return ChunkResult{
		ChunkID:           chunkID,
		Matches:           matches,
		OnlyInSource:      onlyInSource,
		OnlyInDestination: onlyInDestination,
		TotalRows:         srcRows + dstRows,
		CommonColumns:     common,
		MatchPercentage:   pct,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
