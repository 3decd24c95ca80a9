package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()

	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       dataDir,
		ExtractsDir:   filepath.Join(dataDir, "extracts"),
		ReportsDir:    reportsDir,
		ChartsDir:     filepath.Join(dataDir, "charts"),
		LogsDir:       filepath.Join(base, "logs"),

		CleanedCSV:     filepath.Join(reportsDir, config.CleanedDataCSV),
		CleanedParquet: filepath.Join(reportsDir, config.CleanedDataParquet),
		RunManifest:    filepath.Join(reportsDir, config.RunManifestJSON),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestWriteCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteCSV("summary.csv", WriteOptions{
		Headers: []string{"member_casual", "rides"},
		Records: [][]string{
			{"member", "3"},
			{"casual", "2"},
		},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(paths.GetReportPath("summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, "member_casual,rides\nmember,3\ncasual,2\n", string(content))
}

func TestWriteSimpleCSV_AddsBOM(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("summary.csv",
		[]string{"member_casual", "rides"},
		[][]string{{"member", "3"}})
	require.NoError(t, err)

	content, err := os.ReadFile(paths.GetReportPath("summary.csv"))
	require.NoError(t, err)

	// Excel needs the BOM to pick up UTF-8
	assert.True(t, strings.HasPrefix(string(content), "\uFEFF"))
	assert.Equal(t, "\uFEFFmember_casual,rides\nmember,3\n", string(content))
}

func TestWriteCSV_QuotesSpecialValues(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteCSV("stations.csv", WriteOptions{
		Headers: []string{"station"},
		Records: [][]string{{"Clark St, Lake St"}},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(paths.GetReportPath("stations.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Clark St, Lake St"`)
}

func TestResolvePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	tests := []struct {
		name     string
		filePath string
		expected string
	}{
		{
			name:     "bare file name defaults to reports",
			filePath: "summary.csv",
			expected: paths.GetReportPath("summary.csv"),
		},
		{
			name:     "charts prefix",
			filePath: "charts/chart_data.csv",
			expected: paths.GetChartPath("chart_data.csv"),
		},
		{
			name:     "extracts prefix",
			filePath: "extracts/raw.csv",
			expected: paths.GetExtractPath("raw.csv"),
		},
		{
			name:     "absolute path unchanged",
			filePath: filepath.Join(paths.DataDir, "elsewhere.csv"),
			expected: filepath.Join(paths.DataDir, "elsewhere.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, writer.resolvePath(tt.filePath))
		})
	}
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	sw, err := writer.CreateStreamWriter("stream.csv", []string{"ride_id", "rides"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"R1", "1"}))
	require.NoError(t, sw.WriteRecord([]string{"R2", "2"}))
	require.NoError(t, sw.Close())

	content, err := os.ReadFile(paths.GetReportPath("stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\uFEFFride_id,rides\nR1,1\nR2,2\n", string(content))
}

func TestStreamWriter_NoPartialFileBeforeClose(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	sw, err := writer.CreateStreamWriter("stream.csv", []string{"ride_id"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"R1"}))

	// Rows are still in the temporary file; the destination must not exist
	// until Close renames it into place.
	_, statErr := os.Stat(paths.GetReportPath("stream.csv"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, sw.Close())
	assert.FileExists(t, paths.GetReportPath("stream.csv"))
}

func TestStreamWriter_Abort(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	sw, err := writer.CreateStreamWriter("aborted.csv", []string{"ride_id"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"R1"}))

	sw.Abort()

	// Neither the destination nor any temporary file survives an abort.
	_, statErr := os.Stat(paths.GetReportPath("aborted.csv"))
	assert.True(t, os.IsNotExist(statErr))
	assertNoTempFiles(t, paths.ReportsDir)
}

func TestStreamWriter_CloseLeavesNoTempFiles(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	sw, err := writer.CreateStreamWriter("clean.csv", []string{"ride_id"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"R1"}))
	require.NoError(t, sw.Close())

	assertNoTempFiles(t, paths.ReportsDir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-",
			"temporary file left behind: %s", entry.Name())
	}
}
