package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verityio/data-reconciler/cmd/connectors"
	"github.com/verityio/data-reconciler/cmd/recon"
	"github.com/verityio/data-reconciler/cmd/reports"
)

var (
	// Version information - set via ldflags during build
	// Example: go build -ldflags "-X github.com/verityio/data-reconciler/cmd.Version=1.2.3"
	Version = "dev" // Default to "dev" if not set during build

	// versionCheckResult stores the result of the background version check
	versionCheckResult *VersionCheckResult

	cfgFile      string
	debug        bool
	logFormat    string
	noTUI        bool
	datasetsFile string

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true).
			Underline(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D9FF"))

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	logger *slog.Logger
)

// textOnlyHandler is a custom slog handler that outputs human-readable text
// without key=value pairs, suitable for interactive terminal usage
type textOnlyHandler struct {
	opts   slog.HandlerOptions
	writer io.Writer
}

func newTextOnlyHandler(w io.Writer, opts *slog.HandlerOptions) *textOnlyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &textOnlyHandler{
		opts:   *opts,
		writer: w,
	}
}

func (h *textOnlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *textOnlyHandler) Handle(_ context.Context, r slog.Record) error {
	// Format: YYYY-MM-DD HH:MM:SS LEVEL message
	timestamp := r.Time.Format("2006-01-02 15:04:05")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.writer, "%s %s %s\n", timestamp, level, r.Message)
	return err
}

func (h *textOnlyHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	// Attributes are ignored in text-only mode
	return h
}

func (h *textOnlyHandler) WithGroup(_ string) slog.Handler {
	// Groups are ignored in text-only mode
	return h
}

// initLogger initializes the slog logger based on debug flag and log format
func initLogger(isDebug bool, format string) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if isDebug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "logfmt":
		// logfmt uses slog.TextHandler which outputs key=value pairs
		handler = slog.NewTextHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = newTextOnlyHandler(os.Stdout, opts)
	}

	logger = slog.New(handler)
}

var rootCmd = &cobra.Command{
	Use:     "data-reconciler",
	Version: Version,
	Short:   "🔍 Reconcile a source-of-record dataset against its replica",
	Long: titleStyle.Render("Data Reconciler") + `

A CLI tool to verify that a replicated dataset still matches its source of
record. Compares PostgreSQL tables, local CSV/JSONL/Parquet files and
S3-hosted objects through four phases: metadata comparison, hash
fingerprinting, sample-based drift detection and full chunked row
comparison. Produces JSON, CSV and HTML reports.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// Show help when no subcommand is specified
		cmd.Help()
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare one dataset pair",
	Long:  `Compare a single source/destination dataset pair. Both sides are loaded fully, run through the enabled comparison phases, and summarized in reports under the output directory.`,
	Run: func(_ *cobra.Command, _ []string) {
		runCompare()
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compare every dataset pair in a datasets file",
	Long: `Run a batch reconciliation from a datasets file (CSV or YAML). Each row
names a dataset pair and may override engine settings; a failing pair is
recorded and never aborts its siblings. Consolidated reports cover the
whole batch.`,
	Run: func(_ *cobra.Command, _ []string) {
		runBatch()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batchCmd)

	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.data-reconciler.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, logfmt, json)")
	rootCmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false, "disable the live progress display")
	rootCmd.PersistentFlags().String("output-dir", "comparison_results", "directory for generated reports")
	rootCmd.PersistentFlags().StringSlice("report-formats", []string{"json", "csv", "html"}, "report formats to generate (json, csv, html)")
	rootCmd.PersistentFlags().String("compress-reports", "none", "compress report files (none, gzip, zstd, lz4)")

	// Engine flags shared by both subcommands
	for _, cmd := range []*cobra.Command{compareCmd, batchCmd} {
		cmd.Flags().Int("chunk-size", 1_000_000, "rows per chunk in the full comparison")
		cmd.Flags().Int("max-parallelism", 4, "parallel chunk comparison workers")
		cmd.Flags().Int("sample-size", 100_000, "rows per sample in the sampling phase")
		cmd.Flags().String("sampling-strategy", "random", "sampling strategy: random, systematic, stratified, adaptive")
		cmd.Flags().String("stratify-column", "", "column to stratify samples by (stratified strategy)")
		cmd.Flags().StringSlice("fingerprint-columns", nil, "columns to fingerprint (default: all common columns)")
		cmd.Flags().String("fingerprint-algorithm", "md5", "fingerprint algorithm: md5, sha256, xxhash")
		cmd.Flags().Int64("seed", recon.DefaultSeed, "sampling seed")
		cmd.Flags().Bool("enable-metadata-comparison", true, "run the metadata comparison phase")
		cmd.Flags().Bool("enable-fingerprinting", true, "run the fingerprinting phase")
		cmd.Flags().Bool("enable-sampling", true, "run the sampling and drift phase")
		cmd.Flags().Bool("enable-full-comparison", true, "run the full chunked comparison phase")

		// Connection details; either side may instead be spelled out
		// in the config or datasets file
		cmd.Flags().String("db-host", "localhost", "PostgreSQL host")
		cmd.Flags().Int("db-port", 5432, "PostgreSQL port")
		cmd.Flags().String("db-user", "", "PostgreSQL user")
		cmd.Flags().String("db-password", "", "PostgreSQL password")
		cmd.Flags().String("db-name", "", "PostgreSQL database name")
		cmd.Flags().String("db-sslmode", "disable", "PostgreSQL SSL mode (disable, require, verify-ca, verify-full)")
		cmd.Flags().String("s3-endpoint", "", "S3-compatible endpoint URL")
		cmd.Flags().String("s3-bucket", "", "S3 bucket name")
		cmd.Flags().String("s3-access-key", "", "S3 access key")
		cmd.Flags().String("s3-secret-key", "", "S3 secret key")
		cmd.Flags().String("s3-region", "auto", "S3 region")
	}

	// Compare-specific flags
	compareCmd.Flags().String("name", "", "dataset name (required)")
	compareCmd.Flags().String("description", "", "dataset description")
	compareCmd.Flags().String("source-type", "postgres", "source type: postgres, csv, jsonl, parquet, s3")
	compareCmd.Flags().String("source-table", "", "source table name")
	compareCmd.Flags().String("source-query", "", "source SQL query (overrides --source-table)")
	compareCmd.Flags().String("source-path", "", "source file path")
	compareCmd.Flags().String("source-key", "", "source S3 object key")
	compareCmd.Flags().String("destination-type", "s3", "destination type: postgres, csv, jsonl, parquet, s3")
	compareCmd.Flags().String("destination-table", "", "destination table name")
	compareCmd.Flags().String("destination-query", "", "destination SQL query (overrides --destination-table)")
	compareCmd.Flags().String("destination-path", "", "destination file path")
	compareCmd.Flags().String("destination-key", "", "destination S3 object key")

	// Batch-specific flags
	batchCmd.Flags().StringVar(&datasetsFile, "datasets", "datasets.csv", "datasets file (.csv or .yaml)")
	batchCmd.Flags().String("source-type", "postgres", "default source type for dataset rows")
	batchCmd.Flags().String("destination-type", "s3", "default destination type for dataset rows")

	// Bind persistent flags
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("no_tui", rootCmd.PersistentFlags().Lookup("no-tui"))
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("report_formats", rootCmd.PersistentFlags().Lookup("report-formats"))
	_ = viper.BindPFlag("report_compression", rootCmd.PersistentFlags().Lookup("compress-reports"))

	// Bind the shared engine and connection flags (last binding wins for
	// shared keys; both subcommands carry identical defaults)
	for _, cmd := range []*cobra.Command{compareCmd, batchCmd} {
		_ = viper.BindPFlag("chunk_size", cmd.Flags().Lookup("chunk-size"))
		_ = viper.BindPFlag("max_parallelism", cmd.Flags().Lookup("max-parallelism"))
		_ = viper.BindPFlag("sample_size", cmd.Flags().Lookup("sample-size"))
		_ = viper.BindPFlag("sampling_strategy", cmd.Flags().Lookup("sampling-strategy"))
		_ = viper.BindPFlag("stratify_column", cmd.Flags().Lookup("stratify-column"))
		_ = viper.BindPFlag("fingerprint_columns", cmd.Flags().Lookup("fingerprint-columns"))
		_ = viper.BindPFlag("fingerprint_algorithm", cmd.Flags().Lookup("fingerprint-algorithm"))
		_ = viper.BindPFlag("seed", cmd.Flags().Lookup("seed"))
		_ = viper.BindPFlag("enable_metadata_comparison", cmd.Flags().Lookup("enable-metadata-comparison"))
		_ = viper.BindPFlag("enable_fingerprinting", cmd.Flags().Lookup("enable-fingerprinting"))
		_ = viper.BindPFlag("enable_sampling", cmd.Flags().Lookup("enable-sampling"))
		_ = viper.BindPFlag("enable_full_comparison", cmd.Flags().Lookup("enable-full-comparison"))
		_ = viper.BindPFlag("db.host", cmd.Flags().Lookup("db-host"))
		_ = viper.BindPFlag("db.port", cmd.Flags().Lookup("db-port"))
		_ = viper.BindPFlag("db.user", cmd.Flags().Lookup("db-user"))
		_ = viper.BindPFlag("db.password", cmd.Flags().Lookup("db-password"))
		_ = viper.BindPFlag("db.name", cmd.Flags().Lookup("db-name"))
		_ = viper.BindPFlag("db.sslmode", cmd.Flags().Lookup("db-sslmode"))
		_ = viper.BindPFlag("s3.endpoint", cmd.Flags().Lookup("s3-endpoint"))
		_ = viper.BindPFlag("s3.bucket", cmd.Flags().Lookup("s3-bucket"))
		_ = viper.BindPFlag("s3.access_key", cmd.Flags().Lookup("s3-access-key"))
		_ = viper.BindPFlag("s3.secret_key", cmd.Flags().Lookup("s3-secret-key"))
		_ = viper.BindPFlag("s3.region", cmd.Flags().Lookup("s3-region"))
		_ = viper.BindPFlag("source.type", cmd.Flags().Lookup("source-type"))
		_ = viper.BindPFlag("destination.type", cmd.Flags().Lookup("destination-type"))
	}

	// Bind compare flags
	_ = viper.BindPFlag("dataset.name", compareCmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("dataset.description", compareCmd.Flags().Lookup("description"))
	_ = viper.BindPFlag("source.table", compareCmd.Flags().Lookup("source-table"))
	_ = viper.BindPFlag("source.query", compareCmd.Flags().Lookup("source-query"))
	_ = viper.BindPFlag("source.path", compareCmd.Flags().Lookup("source-path"))
	_ = viper.BindPFlag("source.key", compareCmd.Flags().Lookup("source-key"))
	_ = viper.BindPFlag("destination.table", compareCmd.Flags().Lookup("destination-table"))
	_ = viper.BindPFlag("destination.query", compareCmd.Flags().Lookup("destination-query"))
	_ = viper.BindPFlag("destination.path", compareCmd.Flags().Lookup("destination-path"))
	_ = viper.BindPFlag("destination.key", compareCmd.Flags().Lookup("destination-key"))

	// Bind batch flags
	_ = viper.BindPFlag("datasets_file", batchCmd.Flags().Lookup("datasets"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".data-reconciler")
	}

	viper.SetEnvPrefix("RECONCILE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && debug {
		// Initialize logger early if reading config in debug mode
		if logger == nil {
			initLogger(debug, logFormat)
		}
		logger.Debug(fmt.Sprintf("📄 Using config file: %s", viper.ConfigFileUsed()))
	}
}

// buildConfig assembles the effective configuration from every viper
// source: flags, environment, config file.
func buildConfig() *Config {
	database := connectors.DatabaseConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetInt("db.port"),
		User:     viper.GetString("db.user"),
		Password: viper.GetString("db.password"),
		Name:     viper.GetString("db.name"),
		SSLMode:  viper.GetString("db.sslmode"),
	}
	objectStore := connectors.S3Config{
		Endpoint:  viper.GetString("s3.endpoint"),
		Bucket:    viper.GetString("s3.bucket"),
		AccessKey: viper.GetString("s3.access_key"),
		SecretKey: viper.GetString("s3.secret_key"),
		Region:    viper.GetString("s3.region"),
	}

	return &Config{
		Debug:     viper.GetBool("debug"),
		LogFormat: viper.GetString("log_format"),
		NoTUI:     viper.GetBool("no_tui"),

		Name:        viper.GetString("dataset.name"),
		Description: viper.GetString("dataset.description"),
		Source:      buildSpec("source", database, objectStore),
		Destination: buildSpec("destination", database, objectStore),

		ChunkSize:            viper.GetInt("chunk_size"),
		MaxParallelism:       viper.GetInt("max_parallelism"),
		SampleSize:           viper.GetInt("sample_size"),
		SamplingStrategy:     viper.GetString("sampling_strategy"),
		StratifyColumn:       viper.GetString("stratify_column"),
		FingerprintColumns:   viper.GetStringSlice("fingerprint_columns"),
		FingerprintAlgorithm: viper.GetString("fingerprint_algorithm"),
		Seed:                 viper.GetInt64("seed"),

		EnableMetadataComparison: viper.GetBool("enable_metadata_comparison"),
		EnableFingerprinting:     viper.GetBool("enable_fingerprinting"),
		EnableSampling:           viper.GetBool("enable_sampling"),
		EnableFullComparison:     viper.GetBool("enable_full_comparison"),

		OutputDir:         viper.GetString("output_dir"),
		ReportFormats:     viper.GetStringSlice("report_formats"),
		ReportCompression: viper.GetString("report_compression"),
	}
}

// buildSpec reads one side's connector spec. Side-specific db/s3 blocks
// in the config file override the shared connection flags.
func buildSpec(side string, database connectors.DatabaseConfig, objectStore connectors.S3Config) connectors.Spec {
	spec := connectors.Spec{
		Type:     viper.GetString(side + ".type"),
		Table:    viper.GetString(side + ".table"),
		Query:    viper.GetString(side + ".query"),
		Path:     viper.GetString(side + ".path"),
		Key:      viper.GetString(side + ".key"),
		Database: database,
		S3:       objectStore,
	}
	if viper.IsSet(side + ".database") {
		_ = viper.UnmarshalKey(side+".database", &spec.Database)
	}
	if viper.IsSet(side + ".s3") {
		_ = viper.UnmarshalKey(side+".s3", &spec.S3)
	}
	return spec
}

func runCompare() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n❌ PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	config := buildConfig()
	initLogger(config.Debug, config.LogFormat)

	logger.Info("")
	logger.Info(fmt.Sprintf("🔍 Data Reconciler v%s", Version))
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	logger.Debug("Validating configuration...")
	if err := config.Validate(); err != nil {
		logger.Error(fmt.Sprintf("❌ Configuration error: %s", err.Error()))
		os.Exit(1)
	}
	logger.Debug("Configuration validated successfully")

	entries := []DatasetEntry{{
		Name:        config.Name,
		Description: config.Description,
		Source:      config.Source,
		Destination: config.Destination,
	}}
	runReconciliation(config, entries)
}

func runBatch() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n❌ PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	config := buildConfig()
	initLogger(config.Debug, config.LogFormat)

	logger.Info("")
	logger.Info(fmt.Sprintf("🔍 Data Reconciler v%s - Batch Mode", Version))
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Batch rows supply the dataset names; validate the rest with a
	// placeholder name.
	probe := *config
	probe.Name = "batch"
	logger.Debug("Validating configuration...")
	if err := probe.Validate(); err != nil && !errors.Is(err, ErrSourceTypeRequired) && !errors.Is(err, ErrDestinationTypeRequired) {
		logger.Error(fmt.Sprintf("❌ Configuration error: %s", err.Error()))
		os.Exit(1)
	}

	path := viper.GetString("datasets_file")
	logger.Info(fmt.Sprintf("📋 Loading datasets from %s", path))
	entries, err := LoadDatasets(path, config)
	if err != nil {
		logger.Error(fmt.Sprintf("❌ Failed to load datasets: %s", err.Error()))
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("📋 Loaded %d datasets", len(entries)))

	runReconciliation(config, entries)
}

// runReconciliation drives the engine over the dataset entries, writes
// reports, and exits non-zero when any pair mismatches or fails.
func runReconciliation(config *Config, entries []DatasetEntry) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Check for updates in background (non-blocking)
	updateCheckDone := make(chan struct{})
	go func() {
		defer close(updateCheckDone)
		result := checkForUpdates(context.Background(), Version)
		versionCheckResult = &result

		if result.UpdateAvailable {
			logger.Info("")
			logger.Info(fmt.Sprintf("💡 %s", formatUpdateMessage(result)))
		} else if result.Error != nil && config.Debug {
			logger.Debug(fmt.Sprintf("Version check failed: %v", result.Error))
		}
	}()
	select {
	case <-updateCheckDone:
	case <-time.After(2 * time.Second):
		logger.Debug("Version check taking longer than expected, continuing...")
	}

	settings := config.EngineSettings()
	engine, err := recon.NewEngine(settings, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("❌ Configuration error: %s", err.Error()))
		os.Exit(1)
	}
	pairs := BuildPairs(entries, settings, logger)

	// Write PID file so external tooling can find the running process
	if err := WritePIDFile(); err != nil {
		logger.Warn(fmt.Sprintf("⚠️  Failed to write PID file: %v", err))
	}
	defer func() {
		_ = RemovePIDFile()
	}()

	taskInfo := &TaskInfo{
		PID:          os.Getpid(),
		StartTime:    time.Now(),
		DatasetsFile: viper.GetString("datasets_file"),
		CurrentTask:  "Starting reconciliation",
		TotalItems:   len(pairs),
	}
	_ = WriteTaskInfo(taskInfo)
	defer func() {
		_ = RemoveTaskFile()
	}()

	engine.Progress = func(event recon.ProgressEvent) {
		taskInfo.CurrentTask = "Comparing datasets"
		taskInfo.CurrentDataset = event.Dataset
		taskInfo.CurrentPhase = event.Phase
		if event.Done {
			taskInfo.CompletedItems = event.DatasetIndex + 1
		}
		if event.DatasetTotal > 0 {
			taskInfo.Progress = float64(taskInfo.CompletedItems) / float64(event.DatasetTotal)
		}
		_ = WriteTaskInfo(taskInfo)
	}

	var result *recon.ConsolidatedResult
	if config.NoTUI || config.Debug {
		result = engine.RunBatch(ctx, pairs)
	} else {
		result, err = runWithProgressUI(ctx, engine, pairs)
		if err != nil {
			logger.Error(fmt.Sprintf("❌ Progress display failed: %s", err.Error()))
			os.Exit(1)
		}
	}

	if ctx.Err() != nil {
		logger.Info("")
		logger.Info("⚠️  Reconciliation cancelled by user")
		os.Exit(130)
	}

	writeReports(config, result)
	printSummary(result)

	if !result.OverallMatch {
		os.Exit(1)
	}
}

func writeReports(config *Config, result *recon.ConsolidatedResult) {
	writer := reports.NewWriter(config.OutputDir, logger)
	writer.Compression = config.ReportCompression

	if _, err := writer.WriteAll(result, config.ReportFormats); err != nil {
		logger.Error(fmt.Sprintf("❌ Failed to write reports: %s", err.Error()))
	}

	for _, format := range config.ReportFormats {
		if format != "json" {
			continue
		}
		for _, datasetResult := range result.Results {
			if _, err := writer.WriteDatasetJSON(datasetResult); err != nil {
				logger.Error(fmt.Sprintf("❌ Failed to write dataset report for %s: %s", datasetResult.Name, err.Error()))
			}
		}
		break
	}
}

func printSummary(result *recon.ConsolidatedResult) {
	logger.Info("")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info(fmt.Sprintf("📊 Datasets compared: %d (✅ %d, ❌ %d)",
		result.TotalDatasets, result.SuccessfulComparisons, result.FailedComparisons))
	logger.Info(fmt.Sprintf("📊 Success rate: %s", infoStyle.Render(fmt.Sprintf("%.2f%%", result.SuccessRate))))
	logger.Info(fmt.Sprintf("⏱️  Total processing time: %.2fs", result.TotalProcessingSeconds))

	for _, summary := range result.Summaries {
		verdict := passStyle.Render("PASS")
		if !summary.OverallMatch {
			verdict = failStyle.Render("FAIL")
		}
		if summary.Status == "failed" {
			verdict = failStyle.Render("ERROR")
		}
		line := fmt.Sprintf("  %s %s", verdict, summary.Name)
		if summary.Error != "" {
			line += fmt.Sprintf(" (%s)", summary.Error)
		}
		logger.Info(line)
	}

	logger.Info("")
	if result.OverallMatch {
		logger.Info(passStyle.Render("✅ All datasets match!"))
	} else {
		logger.Info(failStyle.Render("❌ Differences detected - see reports for details"))
	}
}
