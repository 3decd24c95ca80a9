// Command processor is Stage 1 of the ride pipeline: it ingests the raw
// monthly extract files, cleans them into the canonical ride dataset, and
// writes the cleaned CSV and Parquet artifacts plus the run manifest.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"ridecli/internal/config"
	"ridecli/internal/dataprocessing"
	"ridecli/internal/infrastructure"
)

func main() {
	inDir := flag.String("in", "", "input directory for raw extract files (defaults to data/extracts relative to executable)")
	outDir := flag.String("out", "", "output directory for the cleaned artifacts (defaults to data/reports relative to executable)")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Directory precedence: executable-relative defaults, then configured
	// paths, then flags.
	paths.ApplyConfig(cfg.Paths)
	applyPathOverrides(paths, *inDir, *outDir)

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" || cfg.Logging.FilePath == "logs/app.log" {
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())

	logger.InfoContext(ctx, "Starting ride extract cleaning",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("input_dir", paths.ExtractsDir),
		slog.String("output_dir", paths.ReportsDir),
		slog.String("executable_dir", paths.ExecutableDir))

	pipeline := dataprocessing.NewPipeline(paths.ExtractsDir, paths, logger)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Cleaning run failed",
			slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Cleaning run succeeded",
		slog.Int("files_parsed", result.Manifest.ParsedFiles()),
		slog.Int("rows_final", len(result.Records)),
		slog.String("cleaned_csv", result.CSVPath),
		slog.String("cleaned_parquet", result.ParquetPath))
}

// applyPathOverrides points the extract and report directories at the
// flag-supplied locations. The artifact paths follow the reports directory,
// so -out moves the cleaned CSV, the Parquet file, and the manifest together.
func applyPathOverrides(paths *config.Paths, inDir, outDir string) {
	if inDir != "" {
		paths.ExtractsDir = inDir
	}
	if outDir != "" {
		paths.ReportsDir = outDir
		paths.CleanedCSV = filepath.Join(outDir, config.CleanedDataCSV)
		paths.CleanedParquet = filepath.Join(outDir, config.CleanedDataParquet)
		paths.RunManifest = filepath.Join(outDir, config.RunManifestJSON)
	}
}
