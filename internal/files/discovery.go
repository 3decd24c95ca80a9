package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory,
// sorted by file name for a deterministic processing order.
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findByExtensions(dir, ".csv")
}

// FindExcelFiles finds all Excel files in the specified directory,
// sorted by file name for a deterministic processing order.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	return d.findByExtensions(dir, ".xlsx", ".xls")
}

// FindExtractFiles finds all monthly extract files (CSV and Excel) in the
// specified directory, sorted by file name. Files are combined into a single
// deterministic ordering regardless of format.
func (d *Discovery) FindExtractFiles(dir string) ([]FileInfo, error) {
	return d.findByExtensions(dir, ".csv", ".xlsx", ".xls")
}

func (d *Discovery) findByExtensions(dir string, exts ...string) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !hasAnySuffix(name, exts) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   false,
		})
	}

	// Sort by name so repeated runs over the same inputs process
	// files in the same order
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

func hasAnySuffix(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FindFilesByPattern finds files matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}
	searchPattern := filepath.Join(fullPath, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, FileInfo{
				Path:    match,
				Name:    filepath.Base(match),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				IsDir:   false,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
