package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"ridecli/internal/config"
)

// extractFileRE matches the file names of supported monthly extracts.
var extractFileRE = regexp.MustCompile(config.ExtractFilePattern)

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that the input directory exists and, when
// patterns are given, reports how many files match each. An empty match is
// not an error; the caller decides whether zero inputs is fatal.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPatterns ...string) error {
	// Check if directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}

	for _, requiredPattern := range requiredPatterns {
		pattern := filepath.Join(dir, requiredPattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			v.logger.Error("Failed to check for files",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to check for files: %w", err)
		}

		if len(matches) == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
			continue
		}

		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(matches)),
			slog.String("pattern", requiredPattern))
	}

	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	// Try to create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExtractFile checks that a file is a readable monthly extract in
// one of the supported formats. Excel lock files left behind by an open
// workbook are rejected so they never reach the parser.
func (v *FileValidator) ValidateExtractFile(path string) error {
	// First validate it exists
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	// Check extension
	if !extractFileRE.MatchString(filepath.Base(path)) {
		ext := strings.ToLower(filepath.Ext(path))
		v.logger.Error("File is not a supported extract format",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a supported extract format (extension: %s)", path, ext)
	}

	// Check it's not a temp file
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel lock file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel lock file", path)
	}

	return nil
}
