package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExtractsDir   string
	ReportsDir    string
	ChartsDir     string
	LogsDir       string

	// Well-known artifact files
	CleanedCSV     string
	CleanedParquet string
	RunManifest    string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the
// current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// <exe dir>/
	//   ├── data/
	//   │   ├── extracts/   (raw monthly extract files)
	//   │   ├── reports/    (cleaned artifact + aggregate CSVs + run manifest)
	//   │   └── charts/     (rendered chart images)
	//   └── logs/           (application logs)

	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ExtractsDir:   filepath.Join(dataDir, "extracts"),
		ReportsDir:    reportsDir,
		ChartsDir:     filepath.Join(dataDir, "charts"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		CleanedCSV:     filepath.Join(reportsDir, CleanedDataCSV),
		CleanedParquet: filepath.Join(reportsDir, CleanedDataParquet),
		RunManifest:    filepath.Join(reportsDir, RunManifestJSON),
	}

	return paths, nil
}

// ApplyConfig overlays the configured directories onto the resolved layout.
// Relative directories resolve against the executable directory, never the
// working directory; empty fields keep the resolved defaults. Moving the
// data directory moves the extract, report, and chart directories with it
// unless they are individually configured, and the well-known artifact
// files always follow the reports directory.
func (p *Paths) ApplyConfig(cfg PathsConfig) {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(p.ExecutableDir, dir)
	}

	if cfg.DataDir != "" {
		p.DataDir = resolve(cfg.DataDir)
		p.ExtractsDir = filepath.Join(p.DataDir, "extracts")
		p.ReportsDir = filepath.Join(p.DataDir, "reports")
		p.ChartsDir = filepath.Join(p.DataDir, "charts")
	}
	if cfg.ExtractsDir != "" {
		p.ExtractsDir = resolve(cfg.ExtractsDir)
	}
	if cfg.ReportsDir != "" {
		p.ReportsDir = resolve(cfg.ReportsDir)
	}
	if cfg.ChartsDir != "" {
		p.ChartsDir = resolve(cfg.ChartsDir)
	}
	if cfg.LogsDir != "" {
		p.LogsDir = resolve(cfg.LogsDir)
	}

	p.CleanedCSV = filepath.Join(p.ReportsDir, CleanedDataCSV)
	p.CleanedParquet = filepath.Join(p.ReportsDir, CleanedDataParquet)
	p.RunManifest = filepath.Join(p.ReportsDir, RunManifestJSON)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExtractsDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetExtractPath returns the path for a raw extract file
func (p *Paths) GetExtractPath(filename string) string {
	return filepath.Join(p.ExtractsDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the path for a rendered chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCleanedCSVPath returns the path for the cleaned ride artifact (CSV)
func (p *Paths) GetCleanedCSVPath() string {
	return p.CleanedCSV
}

// GetCleanedParquetPath returns the path for the cleaned ride artifact (Parquet)
func (p *Paths) GetCleanedParquetPath() string {
	return p.CleanedParquet
}

// GetRunManifestPath returns the path for the cleaning run manifest
func (p *Paths) GetRunManifestPath() string {
	return p.RunManifest
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("extracts", p.ExtractsDir),
			slog.String("reports", p.ReportsDir),
			slog.String("charts", p.ChartsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifact_files",
			slog.String("cleaned_csv", p.CleanedCSV),
			slog.String("cleaned_parquet", p.CleanedParquet),
			slog.String("run_manifest", p.RunManifest),
		))
}
