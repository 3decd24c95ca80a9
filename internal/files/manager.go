package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ridecli/internal/config"
)

// Manager resolves file paths against the pipeline directory layout and
// provides the file operations the binaries need: existence and size
// checks on artifacts, and atomic writes for files that readers must
// never observe half-written.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a manager over the given layout.
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	fullPath := m.resolvePath(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it into place. Readers never observe a partially
// written file.
func (m *Manager) WriteFileAtomic(path string, data []byte) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Writing file atomically",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// resolvePath resolves a path relative to the appropriate base directory
func (m *Manager) resolvePath(path string) string {
	// If the path is already absolute, return it as-is
	if filepath.IsAbs(path) {
		return path
	}

	// Determine which directory to use based on the path
	switch {
	case strings.HasPrefix(path, "extracts/"):
		return m.paths.GetExtractPath(strings.TrimPrefix(path, "extracts/"))
	case strings.HasPrefix(path, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(path, "reports/"))
	case strings.HasPrefix(path, "charts/"):
		return m.paths.GetChartPath(strings.TrimPrefix(path, "charts/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		// For files in the data directory
		return filepath.Join(m.paths.DataDir, path)
	}
}
