package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"ridecli/internal/config"
	apperrors "ridecli/internal/errors"
	"ridecli/internal/exporter"
	"ridecli/internal/files"
	"ridecli/internal/infrastructure"
	"ridecli/internal/operations"
	"ridecli/internal/validation"
	"ridecli/pkg/contracts/domain"
)

// Pipeline runs the full cleaning sequence: discover extracts, validate and
// parse each file, combine, derive, filter, finalize, and write the cleaned
// artifacts plus the run manifest. It is strictly single-threaded; the input
// volume never justifies worker fan-out and sequential order keeps the
// artifacts byte-for-byte reproducible.
type Pipeline struct {
	inputDir    string
	paths       *config.Paths
	reader      *ExtractReader
	validator   *validation.FileValidator
	fileManager *files.Manager
	logger      *slog.Logger
}

// Result carries the outcome of a completed cleaning run.
type Result struct {
	Records     []domain.RideRecord
	Manifest    *operations.RunManifest
	CSVPath     string
	ParquetPath string
}

// NewPipeline creates a cleaning pipeline reading extracts from inputDir and
// writing artifacts into the reports directory of paths.
func NewPipeline(inputDir string, paths *config.Paths, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		inputDir:    inputDir,
		paths:       paths,
		reader:      NewExtractReader(logger),
		validator:   validation.NewFileValidator(logger),
		fileManager: files.NewManager(paths),
		logger:      logger,
	}
}

// Run executes the cleaning sequence. Per-file and per-row failures are
// recoverable: they are logged, counted in the manifest, and the run
// continues. Fatal conditions (no usable files, required columns missing
// from the combined set, an empty record set at any later step) abort with
// an error naming the violated invariant. The manifest is saved in both
// outcomes.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	manifest := operations.NewRunManifest(runID, p.inputDir)

	records, err := p.clean(ctx, manifest)
	if err != nil {
		manifest.MarkFailed(err)
		p.saveManifest(ctx, manifest)
		return nil, err
	}

	csvPath := p.paths.GetCleanedCSVPath()
	parquetPath := p.paths.GetCleanedParquetPath()

	if err := p.validator.ValidateOutputDirectory(p.paths.ReportsDir); err != nil {
		err = apperrors.NewStorageError("reports directory is not writable", err)
		manifest.MarkFailed(err)
		p.saveManifest(ctx, manifest)
		return nil, err
	}

	if err := exporter.WriteRidesCSV(csvPath, records); err != nil {
		manifest.MarkFailed(err)
		p.saveManifest(ctx, manifest)
		return nil, err
	}
	if err := manifest.AddArtifact(csvPath, "csv", len(records)); err != nil {
		p.logger.WarnContext(ctx, "Failed to record CSV artifact in manifest",
			slog.String("path", csvPath),
			slog.String("error", err.Error()))
	}

	if err := exporter.WriteRidesParquet(parquetPath, records); err != nil {
		manifest.MarkFailed(err)
		p.saveManifest(ctx, manifest)
		return nil, err
	}
	if err := manifest.AddArtifact(parquetPath, "parquet", len(records)); err != nil {
		p.logger.WarnContext(ctx, "Failed to record Parquet artifact in manifest",
			slog.String("path", parquetPath),
			slog.String("error", err.Error()))
	}

	manifest.MarkCompleted()
	p.saveManifest(ctx, manifest)

	p.logger.InfoContext(ctx, "Cleaning run completed",
		slog.String("cleaned_csv", csvPath),
		slog.String("cleaned_parquet", parquetPath),
		slog.String("rows", humanize.Comma(int64(len(records)))))

	return &Result{
		Records:     records,
		Manifest:    manifest,
		CSVPath:     csvPath,
		ParquetPath: parquetPath,
	}, nil
}

// clean runs discovery through finalization and returns the cleaned set.
func (p *Pipeline) clean(ctx context.Context, manifest *operations.RunManifest) ([]domain.RideRecord, error) {
	tables, err := p.ingest(ctx, manifest)
	if err != nil {
		return nil, err
	}

	combined := Combine(tables)
	manifest.SetCombinedRows(combined.RowCount())
	p.logger.InfoContext(ctx, "Combined extracts",
		slog.Int("files", len(tables)),
		slog.Int("columns", len(combined.Headers)),
		slog.String("rows", humanize.Comma(int64(combined.RowCount()))))

	if missing := combined.MissingColumns(RequiredCombinedColumns...); len(missing) > 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"combined extracts missing required columns: %s", strings.Join(missing, ", ")))
	}

	records, deriveStats := DeriveRecords(combined)
	manifest.SetTimestampDrops(deriveStats.BadTimestamps)
	if deriveStats.BadTimestamps > 0 {
		p.logger.WarnContext(ctx, "Dropped rows with unparseable timestamps",
			slog.Int("rows", deriveStats.BadTimestamps))
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no rows survived timestamp derivation")
	}

	records, filterReport := ApplyQualityFilters(records)
	for _, d := range filterReport.Drops {
		if d.Rows > 0 {
			p.logger.InfoContext(ctx, "Quality filter removed rows",
				slog.String("reason", d.Reason),
				slog.Int("rows", d.Rows))
		}
	}
	p.logger.InfoContext(ctx, "Applied quality filters",
		slog.String("rows_before", humanize.Comma(int64(filterReport.RowsIn))),
		slog.String("rows_after", humanize.Comma(int64(filterReport.RowsOut))))
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no rows survived quality filtering")
	}

	records, unknownSegments := FinalizeSegments(records)
	if unknownSegments > 0 {
		p.logger.InfoContext(ctx, "Quality filter removed rows",
			slog.String("reason", DropUnknownSegment),
			slog.Int("rows", unknownSegments))
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no rows survived the member_casual cast")
	}

	drops := make([]operations.DropCount, 0, len(filterReport.Drops)+1)
	for _, d := range filterReport.Drops {
		drops = append(drops, operations.DropCount{Reason: d.Reason, Rows: d.Rows})
	}
	drops = append(drops, operations.DropCount{Reason: DropUnknownSegment, Rows: unknownSegments})
	manifest.SetDrops(drops)
	manifest.SetFinalRows(len(records))

	for _, cell := range SegmentMonthFrequency(records) {
		p.logger.InfoContext(ctx, "Segment by month",
			slog.String("segment", string(cell.Segment)),
			slog.String("month", cell.Month.String()),
			slog.String("rides", humanize.Comma(int64(cell.Rides))))
	}

	return records, nil
}

// ingest discovers the extract files and parses each one, excluding files
// that fail to parse or lack the required columns. Exclusions are
// recoverable and recorded; zero usable files is fatal.
func (p *Pipeline) ingest(ctx context.Context, manifest *operations.RunManifest) ([]*Table, error) {
	inputDir := p.inputDir
	if !filepath.IsAbs(inputDir) {
		inputDir = filepath.Join(p.paths.ExecutableDir, inputDir)
	}
	if err := p.validator.ValidateInputDirectory(inputDir, "*.csv", "*.xlsx"); err != nil {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("extract directory %s is not usable", inputDir), err)
	}

	discovery := files.NewDiscovery(p.paths.ExecutableDir)
	candidates, err := discovery.FindExtractFiles(p.inputDir)
	if err != nil {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to list extract directory %s", p.inputDir), err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("extract files in %s", p.inputDir))
	}

	p.logger.InfoContext(ctx, "Discovered extract files",
		slog.String("directory", p.inputDir),
		slog.Int("count", len(candidates)))

	var tables []*Table
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.validator.ValidateExtractFile(candidate.Path); err != nil {
			p.logger.WarnContext(ctx, "Excluding invalid extract file",
				slog.String("file", candidate.Name),
				slog.String("error", err.Error()))
			manifest.RecordFileExcluded(candidate.Name, candidate.Path, candidate.Size, nil, err)
			continue
		}

		table, err := p.reader.Read(candidate.Path)
		if err != nil {
			p.logger.WarnContext(ctx, "Excluding unparseable extract",
				slog.String("file", candidate.Name),
				slog.String("error", err.Error()))
			manifest.RecordFileExcluded(candidate.Name, candidate.Path, candidate.Size, nil, err)
			continue
		}

		if missing := table.MissingColumns(RequiredFileColumns...); len(missing) > 0 {
			p.logger.WarnContext(ctx, "Excluding extract missing required columns",
				slog.String("file", candidate.Name),
				slog.String("missing", strings.Join(missing, ", ")))
			manifest.RecordFileExcluded(candidate.Name, candidate.Path, candidate.Size, missing, nil)
			continue
		}

		manifest.RecordFileParsed(candidate.Name, candidate.Path, candidate.Size, table.RowCount())
		p.logger.InfoContext(ctx, "Parsed extract",
			slog.String("file", candidate.Name),
			slog.String("rows", humanize.Comma(int64(table.RowCount()))))
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return nil, apperrors.NewValidationError("no extract file survived validation")
	}

	return tables, nil
}

// saveManifest persists the run manifest next to the artifacts. Failure to
// save it never fails the run that produced it.
func (p *Pipeline) saveManifest(ctx context.Context, manifest *operations.RunManifest) {
	path := p.paths.GetRunManifestPath()
	data, err := manifest.MarshalIndented()
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to marshal run manifest",
			slog.String("error", err.Error()))
		return
	}
	if err := p.fileManager.WriteFileAtomic(path, data); err != nil {
		p.logger.WarnContext(ctx, "Failed to save run manifest",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	p.logger.InfoContext(ctx, "Saved run manifest", slog.String("path", path))
}
