package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ridecli/internal/errors"
)

// ExtractReader parses a single monthly extract file into a Table. CSV and
// Excel workbooks feed the identical downstream pipeline; the only
// difference is how the raw cells are pulled out of the file.
type ExtractReader struct {
	logger *slog.Logger
}

// NewExtractReader creates a reader. A nil logger falls back to the default.
func NewExtractReader(logger *slog.Logger) *ExtractReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractReader{logger: logger}
}

// Read parses the extract at path based on its extension.
func (r *ExtractReader) Read(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return r.readCSV(path)
	case ".xlsx", ".xls":
		return r.readWorkbook(path)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported extract format %s", ext), nil)
	}
}

// readCSV parses a CSV extract. The whole file is read so a UTF-8 BOM can
// be stripped before the CSV reader sees it. Short rows are padded to
// header width and long rows truncated; truncations are logged once per
// file with a count.
func (r *ExtractReader) readCSV(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to read extract %s", filepath.Base(path)), err)
	}

	text := strings.TrimPrefix(string(content), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // rows are padded/truncated against the header

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("extract %s is empty", filepath.Base(path)), nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read header of %s", filepath.Base(path)), err)
	}

	table := NewTable(filepath.Base(path), header)

	truncated := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("failed to read row %d of %s", table.RowCount()+2, filepath.Base(path)), err)
		}
		if table.AppendRow(record) {
			truncated++
		}
	}

	if truncated > 0 {
		r.logger.Warn("Truncated overlong rows to header width",
			slog.String("file", filepath.Base(path)),
			slog.Int("rows", truncated))
	}

	r.logger.Debug("Parsed CSV extract",
		slog.String("file", filepath.Base(path)),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// readWorkbook parses an Excel extract with excelize. Sheets are scanned in
// workbook order and the first sheet whose header row carries the required
// ride columns is used; distributions of the dataset occasionally ship a
// notes sheet ahead of the data sheet.
func (r *ExtractReader) readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		table := NewTable(filepath.Base(path), rows[0])
		if len(table.MissingColumns(RequiredFileColumns...)) > 0 {
			continue
		}

		truncated := 0
		for _, row := range rows[1:] {
			if table.AppendRow(row) {
				truncated++
			}
		}
		if truncated > 0 {
			r.logger.Warn("Truncated overlong rows to header width",
				slog.String("file", filepath.Base(path)),
				slog.String("sheet", sheet),
				slog.Int("rows", truncated))
		}

		r.logger.Debug("Parsed workbook extract",
			slog.String("file", filepath.Base(path)),
			slog.String("sheet", sheet),
			slog.Int("columns", len(table.Headers)),
			slog.Int("rows", table.RowCount()))

		return table, nil
	}

	return nil, apperrors.NewParsingError(
		fmt.Sprintf("no sheet in %s carries the ride columns", filepath.Base(path)), nil)
}
