package recon

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Settings are the recognized engine options with their defaults. They are
// validated at engine construction, so unknown strategy or algorithm names
// never survive to a running comparison.
type Settings struct {
	ChunkSize            int
	MaxParallelism       int
	SampleSize           int
	SamplingStrategy     Strategy
	StratifyColumn       string
	FingerprintColumns   []string
	FingerprintAlgorithm Algorithm
	Seed                 int64

	EnableMetadataComparison bool
	EnableFingerprinting     bool
	EnableSampling           bool
	EnableFullComparison     bool
}

// DefaultSettings returns the documented defaults: 1M-row chunks, 4
// workers, 100k samples, random sampling, md5 fingerprints, all phases on.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:                1_000_000,
		MaxParallelism:           4,
		SampleSize:               100_000,
		SamplingStrategy:         StrategyRandom,
		FingerprintAlgorithm:     AlgorithmMD5,
		Seed:                     DefaultSeed,
		EnableMetadataComparison: true,
		EnableFingerprinting:     true,
		EnableSampling:           true,
		EnableFullComparison:     true,
	}
}

// Validate checks the numeric options and that at least one phase is on.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrChunkSizeInvalid, s.ChunkSize)
	}
	if s.MaxParallelism <= 0 {
		return fmt.Errorf("%w: got %d", ErrMaxParallelismInvalid, s.MaxParallelism)
	}
	if s.SampleSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrSampleSizeInvalid, s.SampleSize)
	}
	if !s.EnableMetadataComparison && !s.EnableFingerprinting && !s.EnableSampling && !s.EnableFullComparison {
		return ErrNoPhasesEnabled
	}
	return nil
}

// ProgressEvent reports orchestration progress to an optional observer.
type ProgressEvent struct {
	Dataset      string
	DatasetIndex int
	DatasetTotal int
	Phase        string
	Done         bool
	Err          error
}

// Engine runs the multi-phase comparison for dataset pairs. It performs no
// I/O of its own: sources come in, result values go out, and logging is
// limited to progress messages on the logger it was given.
type Engine struct {
	settings Settings
	sampler  *Sampler
	logger   *slog.Logger

	// Progress, when set, receives phase-level events during a run.
	Progress func(ProgressEvent)
}

// NewEngine validates the settings and returns an engine. A nil logger
// disables logging.
func NewEngine(settings Settings, logger *slog.Logger) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Engine{
		settings: settings,
		sampler:  &Sampler{Seed: settings.Seed},
		logger:   logger,
	}, nil
}

// Settings returns the engine's validated settings.
func (e *Engine) Settings() Settings { return e.settings }

// ComparePair runs the enabled phases, in order, for one dataset pair:
// metadata, fingerprints, sampling + drift, full chunked comparison. The
// first phase error aborts the remaining phases and is returned; partial
// results accumulated so far stay on the returned record.
func (e *Engine) ComparePair(ctx context.Context, name, description string, source, destination Source) (*DatasetComparisonResult, error) {
	result := &DatasetComparisonResult{
		Name:        name,
		Description: description,
		StartedAt:   time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
		result.ProcessingSeconds = round2(result.FinishedAt.Sub(result.StartedAt).Seconds())
	}()

	phases := []struct {
		name    string
		enabled bool
		run     func(context.Context, Source, Source, *DatasetComparisonResult) error
	}{
		{"metadata", e.settings.EnableMetadataComparison, e.runMetadataPhase},
		{"fingerprint", e.settings.EnableFingerprinting, e.runFingerprintPhase},
		{"sampling", e.settings.EnableSampling, e.runSamplingPhase},
		{"full", e.settings.EnableFullComparison, e.runFullPhase},
	}

	for _, phase := range phases {
		if !phase.enabled {
			e.logger.Debug(fmt.Sprintf("Phase %s disabled for dataset %s", phase.name, name))
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.emit(ProgressEvent{Dataset: name, Phase: phase.name})
		e.logger.Info(fmt.Sprintf("▶️  [%s] %s phase", name, phase.name))
		start := time.Now()
		if err := phase.run(ctx, source, destination, result); err != nil {
			return result, fmt.Errorf("%s phase failed: %w", phase.name, err)
		}
		e.logger.Info(fmt.Sprintf("✅ [%s] %s phase completed in %.2fs", name, phase.name, time.Since(start).Seconds()))
	}
	return result, nil
}

func (e *Engine) runMetadataPhase(_ context.Context, source, destination Source, result *DatasetComparisonResult) error {
	metadata := CompareMetadata(source, destination)
	result.Metadata = &metadata
	result.ColumnComparisons = CompareColumns(source, destination, metadata.Schema.CommonColumns)
	return nil
}

func (e *Engine) runFingerprintPhase(_ context.Context, source, destination Source, result *DatasetComparisonResult) error {
	srcFingerprints, err := Fingerprints(source, e.settings.FingerprintColumns, e.settings.FingerprintAlgorithm)
	if err != nil {
		return err
	}
	dstFingerprints, err := Fingerprints(destination, e.settings.FingerprintColumns, e.settings.FingerprintAlgorithm)
	if err != nil {
		return err
	}
	comparison := CompareFingerprints(srcFingerprints, dstFingerprints)
	result.Fingerprints = &comparison
	return nil
}

func (e *Engine) runSamplingPhase(_ context.Context, source, destination Source, result *DatasetComparisonResult) error {
	srcSample, err := e.sampler.Sample(source, e.settings.SampleSize, e.settings.SamplingStrategy, e.settings.StratifyColumn)
	if err != nil {
		return err
	}
	dstSample, err := e.sampler.Sample(destination, e.settings.SampleSize, e.settings.SamplingStrategy, e.settings.StratifyColumn)
	if err != nil {
		return err
	}

	srcFingerprints, err := Fingerprints(srcSample, nil, e.settings.FingerprintAlgorithm)
	if err != nil {
		return err
	}
	dstFingerprints, err := Fingerprints(dstSample, nil, e.settings.FingerprintAlgorithm)
	if err != nil {
		return err
	}

	result.Sample = &SampleComparisonResult{
		SourceSample:      sampleMetadata(srcSample),
		DestinationSample: sampleMetadata(dstSample),
		Fingerprints:      CompareFingerprints(srcFingerprints, dstFingerprints),
		Strategy:          e.settings.SamplingStrategy.String(),
		SampleSize:        e.settings.SampleSize,
	}

	drift, err := DetectDrift(source, destination, e.settings.SampleSize, e.sampler)
	if err != nil {
		return err
	}
	result.Drift = &drift
	return nil
}

func (e *Engine) runFullPhase(ctx context.Context, source, destination Source, result *DatasetComparisonResult) error {
	start := time.Now()
	pairs, err := PairChunks(source, destination, e.settings.ChunkSize)
	if err != nil {
		return err
	}
	e.logger.Debug(fmt.Sprintf("Comparing %d chunk pairs with %d workers", len(pairs), e.settings.MaxParallelism))

	chunkResults, err := CompareChunkPairs(ctx, source, destination, pairs, e.settings.MaxParallelism)
	if err != nil {
		return err
	}
	result.ChunkResults = chunkResults

	full := AggregateChunkResults(chunkResults)
	full.ChunkSize = e.settings.ChunkSize
	full.MaxParallelism = e.settings.MaxParallelism
	full.ProcessingSeconds = round2(time.Since(start).Seconds())
	result.Full = &full
	return nil
}

func sampleMetadata(t *Table) SampleMetadata {
	cols := t.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return SampleMetadata{RowCount: t.RowCount(), Columns: names}
}

// DatasetPair is one unit of batch work: a named pair plus the loader that
// acquires both sides from their connectors. Settings, when non-nil,
// override the engine settings for this pair only.
type DatasetPair struct {
	Name        string
	Description string
	Load        func(ctx context.Context) (source, destination Source, err error)
	Settings    *Settings
}

// RunBatch compares every dataset pair sequentially, isolating failures:
// a pair whose load or comparison fails is recorded as a failed comparison
// and never aborts its siblings. The consolidated result is built once,
// after the last pair finishes.
func (e *Engine) RunBatch(ctx context.Context, pairs []DatasetPair) *ConsolidatedResult {
	var results []*DatasetComparisonResult
	var failures []FailedComparison

	for i, pair := range pairs {
		e.emit(ProgressEvent{Dataset: pair.Name, DatasetIndex: i, DatasetTotal: len(pairs)})
		e.logger.Info(fmt.Sprintf("📊 Comparing dataset %d/%d: %s", i+1, len(pairs), pair.Name))

		result, err := e.comparePairItem(ctx, pair)
		if err != nil {
			e.logger.Error(fmt.Sprintf("❌ Dataset %s failed: %v", pair.Name, err))
			failures = append(failures, FailedComparison{
				Name:        pair.Name,
				Description: pair.Description,
				Error:       err.Error(),
			})
			e.emit(ProgressEvent{Dataset: pair.Name, DatasetIndex: i, DatasetTotal: len(pairs), Done: true, Err: err})
			continue
		}
		results = append(results, result)
		e.emit(ProgressEvent{Dataset: pair.Name, DatasetIndex: i, DatasetTotal: len(pairs), Done: true})
	}

	return Consolidate(results, failures)
}

func (e *Engine) comparePairItem(ctx context.Context, pair DatasetPair) (*DatasetComparisonResult, error) {
	engine := e
	if pair.Settings != nil {
		override, err := NewEngine(*pair.Settings, e.logger)
		if err != nil {
			return nil, err
		}
		override.Progress = e.Progress
		engine = override
	}

	source, destination, err := pair.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset pair: %w", err)
	}
	return engine.ComparePair(ctx, pair.Name, pair.Description, source, destination)
}

func (e *Engine) emit(event ProgressEvent) {
	if e.Progress != nil {
		e.Progress(event)
	}
}

// discardHandler drops all records; used when no logger is supplied.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
