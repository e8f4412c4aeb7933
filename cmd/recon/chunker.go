package recon

import "fmt"

// Chunk is a half-open row range [Lo, Hi) within one source. IDs are
// positional: chunk i covers rows [i*size, min((i+1)*size, rowCount)).
type Chunk struct {
	ID int `json:"chunk_id"`
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// Rows returns the number of rows a chunk covers.
func (c Chunk) Rows() int { return c.Hi - c.Lo }

// ChunkRanges partitions [0, rowCount) into ceil(rowCount/chunkSize)
// chunks. The last chunk may be short. A zero rowCount yields no chunks.
func ChunkRanges(rowCount, chunkSize int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrChunkSizeInvalid, chunkSize)
	}
	if rowCount < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrInvalidSource, rowCount)
	}
	numChunks := (rowCount + chunkSize - 1) / chunkSize
	chunks := make([]Chunk, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		lo := i * chunkSize
		hi := lo + chunkSize
		if hi > rowCount {
			hi = rowCount
		}
		chunks = append(chunks, Chunk{ID: i, Lo: lo, Hi: hi})
	}
	return chunks, nil
}

// ChunkPair is chunk i of the source paired with chunk i of the
// destination.
//
// Pairing is positional: it assumes both sides assign row positions in a
// consistent order. When the two sides diverge in row ordering the
// fingerprint comparison is the authoritative content check; this pairing
// is an accepted approximation for the chunked phase.
type ChunkPair struct {
	Source      Chunk
	Destination Chunk
}

// PairChunks chunks both sources independently and pairs chunk i with
// chunk i, truncating to the shorter side. Excess trailing chunks on the
// larger side are dropped here; the row-count mismatch they represent is
// already reported by the metadata phase.
func PairChunks(source, destination Source, chunkSize int) ([]ChunkPair, error) {
	srcChunks, err := ChunkRanges(source.RowCount(), chunkSize)
	if err != nil {
		return nil, err
	}
	dstChunks, err := ChunkRanges(destination.RowCount(), chunkSize)
	if err != nil {
		return nil, err
	}
	n := len(srcChunks)
	if len(dstChunks) < n {
		n = len(dstChunks)
	}
	pairs := make([]ChunkPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = ChunkPair{Source: srcChunks[i], Destination: dstChunks[i]}
	}
	return pairs, nil
}
