package recon

import "errors"

// Static errors for engine configuration and comparison failures
var (
	ErrInvalidSource         = errors.New("invalid tabular source")
	ErrChunkSizeInvalid      = errors.New("chunk size must be a positive integer")
	ErrMaxParallelismInvalid = errors.New("max parallelism must be a positive integer")
	ErrSampleSizeInvalid     = errors.New("sample size must be a positive integer")
	ErrUnknownStrategy       = errors.New("unknown sampling strategy")
	ErrUnknownAlgorithm      = errors.New("unknown fingerprint algorithm")
	ErrNoCommonColumns       = errors.New("no common columns found")
	ErrNoPhasesEnabled       = errors.New("at least one comparison phase must be enabled")
	ErrColumnNotFound        = errors.New("column not found in source")
)
