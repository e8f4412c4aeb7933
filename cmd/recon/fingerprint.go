package recon

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Algorithm selects the hash applied to canonical row strings. The set is
// closed: unknown names are rejected at parse time, not at hashing time.
type Algorithm int

const (
	AlgorithmMD5 Algorithm = iota
	AlgorithmSHA256
	AlgorithmXXHash
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmMD5:
		return "md5"
	case AlgorithmSHA256:
		return "sha256"
	case AlgorithmXXHash:
		return "xxhash"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm resolves an algorithm name from configuration.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "md5":
		return AlgorithmMD5, nil
	case "sha256":
		return AlgorithmSHA256, nil
	case "xxhash":
		return AlgorithmXXHash, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

func (a Algorithm) hash(canonical string) string {
	switch a {
	case AlgorithmMD5:
		sum := md5.Sum([]byte(canonical))
		return hex.EncodeToString(sum[:])
	case AlgorithmSHA256:
		sum := sha256.Sum256([]byte(canonical))
		return hex.EncodeToString(sum[:])
	default:
		return strconv.FormatUint(xxhash.Sum64String(canonical), 16)
	}
}

// Fingerprints computes one fingerprint per row of the source.
//
// Each row is canonicalized by substituting the null sentinel for missing
// values and the not-a-number sentinel for NaNs, joining the chosen
// columns' string forms with a fixed delimiter in declared column order,
// and hashing the result. When columns is empty, all non-system columns
// participate. The returned slice is aligned with row positions.
func Fingerprints(src Source, columns []string, algorithm Algorithm) ([]string, error) {
	if len(columns) == 0 {
		for _, c := range src.Columns() {
			if !isSystemColumn(c.Name) {
				columns = append(columns, c.Name)
			}
		}
	} else {
		known := make(map[string]bool)
		for _, c := range src.Columns() {
			known[c.Name] = true
		}
		for _, col := range columns {
			if !known[col] {
				return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
			}
		}
	}

	fingerprints := make([]string, src.RowCount())
	for r := range fingerprints {
		fingerprints[r] = algorithm.hash(contentKey(src, r, columns))
	}
	return fingerprints, nil
}

// FingerprintComparison summarizes the multiset comparison of two sides'
// fingerprints.
type FingerprintComparison struct {
	CommonFingerprints int     `json:"common_fingerprints"`
	OnlyInSource       int     `json:"only_in_source"`
	OnlyInDestination  int     `json:"only_in_destination"`
	TotalSource        int     `json:"total_source"`
	TotalDestination   int     `json:"total_destination"`
	MatchPercentage    float64 `json:"match_percentage"`
	FingerprintsMatch  bool    `json:"fingerprints_match"`
}

// CompareFingerprints groups each side's fingerprints by value and
// partitions the distinct values into common / source-only /
// destination-only. Only presence is checked for "common", not occurrence
// counts. The result is independent of row order on either side.
func CompareFingerprints(source, destination []string) FingerprintComparison {
	srcSet := make(map[string]int, len(source))
	for _, fp := range source {
		srcSet[fp]++
	}
	dstSet := make(map[string]int, len(destination))
	for _, fp := range destination {
		dstSet[fp]++
	}

	common := 0
	onlyInSource := 0
	for fp := range srcSet {
		if _, ok := dstSet[fp]; ok {
			common++
		} else {
			onlyInSource++
		}
	}
	onlyInDestination := 0
	for fp := range dstSet {
		if _, ok := srcSet[fp]; !ok {
			onlyInDestination++
		}
	}

	pct := 0.0
	if larger := maxInt(len(source), len(destination)); larger > 0 {
		pct = round2(float64(common) / float64(larger) * 100)
	}

	return FingerprintComparison{
		CommonFingerprints: common,
		OnlyInSource:       onlyInSource,
		OnlyInDestination:  onlyInDestination,
		TotalSource:        len(source),
		TotalDestination:   len(destination),
		MatchPercentage:    pct,
		FingerprintsMatch:  onlyInSource == 0 && onlyInDestination == 0,
	}
}
