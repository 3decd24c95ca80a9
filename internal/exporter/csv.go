package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ridecli/internal/config"
)

// CSVWriter provides CSV export functionality for report files. Relative
// paths default to the reports directory; the aggregate CSVs of the
// analysis stage all land there.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large datasets. Rows go
// to a temporary file in the destination directory; Close renames it into
// place, so readers never observe a partially written file.
type StreamWriter struct {
	file      *os.File
	writer    *csv.Writer
	finalPath string
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	return newStreamWriter(w.resolvePath(filePath), headers)
}

func newStreamWriter(fullPath string, headers []string) (*StreamWriter, error) {
	slog.Info("Creating CSV stream writer",
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	sw := &StreamWriter{
		file:      file,
		writer:    csv.NewWriter(file),
		finalPath: fullPath,
	}

	// BOM for Excel compatibility
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		sw.Abort()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	if len(headers) > 0 {
		if err := sw.writer.Write(headers); err != nil {
			sw.Abort()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return sw, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes the stream and renames the temporary file into place.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.Abort()
		return err
	}
	if err := s.file.Sync(); err != nil {
		s.Abort()
		return err
	}
	tmpPath := s.file.Name()
	if err := s.file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.finalPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Abort discards the stream without touching the destination file.
func (s *StreamWriter) Abort() {
	tmpPath := s.file.Name()
	s.file.Close()
	os.Remove(tmpPath)
}

// resolvePath resolves a path to the appropriate directory
func (w *CSVWriter) resolvePath(filePath string) string {
	// If the path is already absolute, return it as-is
	if filepath.IsAbs(filePath) {
		return filePath
	}

	// Most CSV files are reports, so default to the reports directory
	// unless the path indicates otherwise
	if strings.HasPrefix(filePath, "charts/") {
		return w.paths.GetChartPath(strings.TrimPrefix(filePath, "charts/"))
	} else if strings.HasPrefix(filePath, "extracts/") {
		return w.paths.GetExtractPath(strings.TrimPrefix(filePath, "extracts/"))
	} else {
		return w.paths.GetReportPath(filePath)
	}
}
