package charts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecli/internal/analytics"
	"ridecli/internal/shared/testutil"
	"ridecli/pkg/contracts/domain"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func assertPNG(t *testing.T, path string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(content), len(pngSignature))
	assert.Equal(t, pngSignature, content[:len(pngSignature)])
}

func TestRenderSegmentSummary(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	renderer := NewRenderer(logger)
	outputPath := filepath.Join(t.TempDir(), "01_avg_ride_length_by_segment.png")

	summaries := []analytics.SegmentSummary{
		{Segment: domain.MemberTypeMember, Rides: 3, MeanMinutes: 12.5},
		{Segment: domain.MemberTypeCasual, Rides: 2, MeanMinutes: 28.1},
	}

	err := renderer.RenderSegmentSummary(context.Background(), summaries, outputPath)
	require.NoError(t, err)

	assertPNG(t, outputPath)
	assert.True(t, handler.ContainsMessage("Rendered chart"))
}

func TestRenderWeekdayCounts(t *testing.T) {
	renderer := NewRenderer(nil)
	outputPath := filepath.Join(t.TempDir(), "02_rides_by_weekday.png")

	counts := []analytics.WeekdayCount{
		{Segment: domain.MemberTypeMember, Day: domain.Monday, Rides: 120, MeanMinutes: 11},
		{Segment: domain.MemberTypeMember, Day: domain.Saturday, Rides: 45, MeanMinutes: 19},
		{Segment: domain.MemberTypeCasual, Day: domain.Saturday, Rides: 80, MeanMinutes: 31},
	}

	err := renderer.RenderWeekdayCounts(context.Background(), counts, outputPath)
	require.NoError(t, err)
	assertPNG(t, outputPath)
}

func TestRenderHourCounts(t *testing.T) {
	renderer := NewRenderer(nil)
	outputPath := filepath.Join(t.TempDir(), "03_rides_by_start_hour.png")

	counts := []analytics.HourCount{
		{Segment: domain.MemberTypeMember, Hour: 0, Rides: 4},
		{Segment: domain.MemberTypeMember, Hour: 8, Rides: 210},
		{Segment: domain.MemberTypeMember, Hour: 17, Rides: 260},
		{Segment: domain.MemberTypeCasual, Hour: 14, Rides: 95},
		{Segment: domain.MemberTypeCasual, Hour: 23, Rides: 12},
	}

	err := renderer.RenderHourCounts(context.Background(), counts, outputPath)
	require.NoError(t, err)
	assertPNG(t, outputPath)
}

func TestRenderMonthCounts(t *testing.T) {
	renderer := NewRenderer(nil)
	outputPath := filepath.Join(t.TempDir(), "04_rides_by_month.png")

	counts := []analytics.MonthCount{
		{Segment: domain.MemberTypeMember, Month: domain.January, Rides: 1200},
		{Segment: domain.MemberTypeMember, Month: domain.June, Rides: 5400},
		{Segment: domain.MemberTypeCasual, Month: domain.June, Rides: 7800},
		{Segment: domain.MemberTypeCasual, Month: domain.December, Rides: 300},
	}

	err := renderer.RenderMonthCounts(context.Background(), counts, outputPath)
	require.NoError(t, err)
	assertPNG(t, outputPath)
}

func TestRenderCreatesOutputDirectory(t *testing.T) {
	renderer := NewRenderer(nil)
	outputPath := filepath.Join(t.TempDir(), "charts", "nested", "01.png")

	summaries := []analytics.SegmentSummary{
		{Segment: domain.MemberTypeMember, Rides: 1, MeanMinutes: 10},
	}

	err := renderer.RenderSegmentSummary(context.Background(), summaries, outputPath)
	require.NoError(t, err)
	assertPNG(t, outputPath)
}

func TestRenderSparseSeries(t *testing.T) {
	// An aggregate covering only one segment still renders: the other
	// segment draws as zero-height bars.
	renderer := NewRenderer(nil)
	outputPath := filepath.Join(t.TempDir(), "sparse.png")

	counts := []analytics.MonthCount{
		{Segment: domain.MemberTypeCasual, Month: domain.July, Rides: 42},
	}

	err := renderer.RenderMonthCounts(context.Background(), counts, outputPath)
	require.NoError(t, err)
	assertPNG(t, outputPath)
}

func TestCommaTicks(t *testing.T) {
	ticks := commaTicks{}.Ticks(0, 2_000_000)

	var labeled []string
	for _, tick := range ticks {
		if tick.Label != "" {
			labeled = append(labeled, tick.Label)
		}
	}
	require.NotEmpty(t, labeled)

	// Every labeled tick above a thousand carries separators.
	withComma := 0
	for _, label := range labeled {
		if strings.Contains(label, ",") {
			withComma++
		}
	}
	assert.Greater(t, withComma, 0, "labels: %v", labeled)
}
