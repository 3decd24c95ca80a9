// Command reporter is Stage 2 of the ride pipeline: it loads the cleaned
// ride artifact, computes the descriptive aggregates comparing the member
// and casual segments, writes each aggregate as a CSV report, and renders
// one grouped bar chart per aggregate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"ridecli/internal/analytics"
	"ridecli/internal/charts"
	"ridecli/internal/config"
	apperrors "ridecli/internal/errors"
	"ridecli/internal/exporter"
	"ridecli/internal/files"
	"ridecli/internal/infrastructure"
	"ridecli/pkg/contracts/domain"
)

func main() {
	dataPath := flag.String("data", "", "path to the cleaned ride artifact (defaults to data/reports/rides_cleaned.csv relative to executable)")
	format := flag.String("format", "csv", "cleaned artifact format: csv | parquet")
	chartsDir := flag.String("charts", "", "output directory for chart images (defaults to data/charts relative to executable)")
	reportsDir := flag.String("reports", "", "output directory for aggregate CSVs (defaults to data/reports relative to executable)")
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
	if *chartsDir != "" {
		paths.ChartsDir = *chartsDir
	}
	if *reportsDir != "" {
		paths.ReportsDir = *reportsDir
	}
	if *dataPath == "" {
		*dataPath = defaultArtifactPath(paths, *format)
	}

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" || cfg.Logging.FilePath == "logs/app.log" {
		cfg.Logging.FilePath = paths.GetLogPath("reporter.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())

	logger.InfoContext(ctx, "Starting ride analysis",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("data", *dataPath),
		slog.String("format", *format),
		slog.String("charts_dir", paths.ChartsDir),
		slog.String("reports_dir", paths.ReportsDir))

	manager := files.NewManager(paths)
	if !manager.FileExists(*dataPath) {
		logger.ErrorContext(ctx, "Cleaned artifact not found; run the processor first",
			slog.String("path", *dataPath))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
	if size, err := manager.GetFileSize(*dataPath); err == nil {
		logger.InfoContext(ctx, "Loading cleaned artifact",
			slog.String("path", *dataPath),
			slog.String("size", humanize.Bytes(uint64(size))))
	}

	records, err := loadRecords(*format, *dataPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load cleaned artifact",
			slog.String("path", *dataPath),
			slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Loaded cleaned records",
		slog.String("rows", humanize.Comma(int64(len(records)))))

	failed := runReports(ctx, logger, records, paths)
	if len(failed) > 0 {
		logger.ErrorContext(ctx, "Analysis completed with failures",
			slog.String("failed", strings.Join(failed, ", ")))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Analysis completed",
		slog.String("charts_dir", paths.ChartsDir),
		slog.String("reports_dir", paths.ReportsDir))
}

// defaultArtifactPath picks the canonical artifact for the requested format.
func defaultArtifactPath(paths *config.Paths, format string) string {
	if strings.EqualFold(format, "parquet") {
		return paths.GetCleanedParquetPath()
	}
	return paths.GetCleanedCSVPath()
}

// loadRecords loads the cleaned artifact in the requested format. Both
// loaders yield equivalent record sets.
func loadRecords(format, path string) ([]domain.RideRecord, error) {
	switch strings.ToLower(format) {
	case "csv":
		return exporter.LoadRidesCSV(path)
	case "parquet":
		return exporter.LoadRidesParquet(path)
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown artifact format %q (expected csv or parquet)", format))
	}
}

// runReports computes the four aggregates and renders their charts. The
// aggregate/chart pairs are independent: a failure is logged and the
// remaining pairs still run. The names of the failed pairs are returned.
func runReports(ctx context.Context, logger *slog.Logger, records []domain.RideRecord, paths *config.Paths) []string {
	calculator := analytics.NewCalculator(logger)
	renderer := charts.NewRenderer(logger)
	writer := exporter.NewCSVWriter(paths)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{
			name: "segment_summary",
			run: func(ctx context.Context) error {
				summaries, err := calculator.SegmentSummaries(ctx, records)
				if err != nil {
					return err
				}
				if err := analytics.SaveSegmentSummaryCSV(writer, config.SegmentSummaryCSV, summaries); err != nil {
					return err
				}
				return renderer.RenderSegmentSummary(ctx, summaries, paths.GetChartPath(config.ChartSegmentSummaryPNG))
			},
		},
		{
			name: "rides_by_weekday",
			run: func(ctx context.Context) error {
				counts, err := calculator.WeekdayCounts(ctx, records)
				if err != nil {
					return err
				}
				if err := analytics.SaveWeekdayCountsCSV(writer, config.WeekdayCountsCSV, counts); err != nil {
					return err
				}
				return renderer.RenderWeekdayCounts(ctx, counts, paths.GetChartPath(config.ChartWeekdayCountsPNG))
			},
		},
		{
			name: "rides_by_start_hour",
			run: func(ctx context.Context) error {
				counts, err := calculator.HourCounts(ctx, records)
				if err != nil {
					return err
				}
				if err := analytics.SaveHourCountsCSV(writer, config.HourCountsCSV, counts); err != nil {
					return err
				}
				return renderer.RenderHourCounts(ctx, counts, paths.GetChartPath(config.ChartHourCountsPNG))
			},
		},
		{
			name: "rides_by_month",
			run: func(ctx context.Context) error {
				counts, err := calculator.MonthCounts(ctx, records)
				if err != nil {
					return err
				}
				if err := analytics.SaveMonthCountsCSV(writer, config.MonthCountsCSV, counts); err != nil {
					return err
				}
				return renderer.RenderMonthCounts(ctx, counts, paths.GetChartPath(config.ChartMonthCountsPNG))
			},
		},
	}

	var failed []string
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			logger.ErrorContext(ctx, "Aggregate failed",
				slog.String("aggregate", step.name),
				slog.String("error", err.Error()))
			failed = append(failed, step.name)
		}
	}
	return failed
}
