package operations

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// RunManifest is the single source of truth for what one cleaning run did:
// which extracts were parsed or excluded, how many rows each step dropped,
// and which artifacts were written. It is saved as JSON next to the
// artifacts so operators can audit a run without replaying it.
type RunManifest struct {
	mu sync.RWMutex `json:"-"`

	// Identity
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	InputDir  string    `json:"input_dir"`

	// Per-file ingestion outcomes, in discovery order
	Files []FileStatus `json:"files"`

	// Row accounting across the cleaning steps
	RowsCombined   int         `json:"rows_combined"`
	TimestampDrops int         `json:"timestamp_drops"`
	Drops          []DropCount `json:"drops,omitempty"`
	RowsFinal      int         `json:"rows_final"`

	// Written artifacts with content digests
	Artifacts []ArtifactInfo `json:"artifacts,omitempty"`

	// Current status
	Status      string    `json:"status"` // "running", "completed", "failed"
	Error       string    `json:"error,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// FileStatus records the ingestion outcome of a single extract file.
type FileStatus struct {
	Name           string   `json:"name"`
	Path           string   `json:"path"`
	SizeBytes      int64    `json:"size_bytes"`
	Status         string   `json:"status"` // "parsed" or "excluded"
	Rows           int      `json:"rows,omitempty"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// DropCount pairs a drop reason with the number of rows it removed.
type DropCount struct {
	Reason string `json:"reason"`
	Rows   int    `json:"rows"`
}

// ArtifactInfo describes a written artifact. Digest is the hex BLAKE2b-256
// of the file content, so two runs over identical input can be compared
// without re-reading the artifacts.
type ArtifactInfo struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Rows      int    `json:"rows"`
	SizeBytes int64  `json:"size_bytes"`
	Digest    string `json:"digest"`
}

// NewRunManifest creates a manifest for a run identified by runID reading
// extracts from inputDir.
func NewRunManifest(runID, inputDir string) *RunManifest {
	now := time.Now()
	return &RunManifest{
		ID:          runID,
		StartTime:   now,
		InputDir:    inputDir,
		Files:       []FileStatus{},
		Status:      "running",
		LastUpdated: now,
	}
}

// RecordFileParsed records an extract that parsed and carried the required
// columns.
func (m *RunManifest) RecordFileParsed(name, path string, sizeBytes int64, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Files = append(m.Files, FileStatus{
		Name:      name,
		Path:      path,
		SizeBytes: sizeBytes,
		Status:    "parsed",
		Rows:      rows,
	})
	m.LastUpdated = time.Now()
}

// RecordFileExcluded records an extract excluded from the run, either
// because it failed to parse (cause) or because it lacked required columns
// (missing).
func (m *RunManifest) RecordFileExcluded(name, path string, sizeBytes int64, missing []string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := FileStatus{
		Name:           name,
		Path:           path,
		SizeBytes:      sizeBytes,
		Status:         "excluded",
		MissingColumns: missing,
	}
	if cause != nil {
		status.Error = cause.Error()
	}
	m.Files = append(m.Files, status)
	m.LastUpdated = time.Now()
}

// SetCombinedRows records the row count of the combined set before
// derivation.
func (m *RunManifest) SetCombinedRows(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsCombined = rows
	m.LastUpdated = time.Now()
}

// SetTimestampDrops records rows dropped for unparseable timestamps.
func (m *RunManifest) SetTimestampDrops(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimestampDrops = rows
	m.LastUpdated = time.Now()
}

// SetDrops records the per-predicate drop counts of the quality filters.
func (m *RunManifest) SetDrops(drops []DropCount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Drops = drops
	m.LastUpdated = time.Now()
}

// SetFinalRows records the row count of the cleaned set.
func (m *RunManifest) SetFinalRows(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsFinal = rows
	m.LastUpdated = time.Now()
}

// AddArtifact records a written artifact, reading it back to capture its
// size and BLAKE2b-256 content digest.
func (m *RunManifest) AddArtifact(path, format string, rows int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	sum := blake2b.Sum256(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Artifacts = append(m.Artifacts, ArtifactInfo{
		Path:      path,
		Format:    format,
		Rows:      rows,
		SizeBytes: int64(len(data)),
		Digest:    hex.EncodeToString(sum[:]),
	})
	m.LastUpdated = time.Now()
	return nil
}

// MarkCompleted marks the run as successfully completed.
func (m *RunManifest) MarkCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = "completed"
	m.LastUpdated = time.Now()
}

// MarkFailed marks the run as failed with the fatal error.
func (m *RunManifest) MarkFailed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = "failed"
	if err != nil {
		m.Error = err.Error()
	}
	m.LastUpdated = time.Now()
}

// ParsedFiles returns how many extracts parsed successfully.
func (m *RunManifest) ParsedFiles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parsed := 0
	for _, f := range m.Files {
		if f.Status == "parsed" {
			parsed++
		}
	}
	return parsed
}

// MarshalIndented renders the manifest as indented JSON with a trailing
// newline, the form persisted next to the artifacts. Writing the bytes to
// disk is the caller's concern; the pipeline routes them through an
// atomic file write.
func (m *RunManifest) MarshalIndented() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadRunManifest loads a manifest from a JSON file.
func LoadRunManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &manifest, nil
}
