package charts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"ridecli/internal/analytics"
	"ridecli/pkg/contracts/domain"
)

// Chart canvas size. Wide enough that the 24-category start-hour chart
// stays readable.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// Renderer draws one grouped bar chart per aggregate, rider segment as the
// color dimension. Category axes use the ordered labels of the domain
// enums; count axes use thousands-separator tick labels.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer. A nil logger falls back to the default.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// RenderSegmentSummary draws the average ride length per rider segment.
func (r *Renderer) RenderSegmentSummary(ctx context.Context, summaries []analytics.SegmentSummary, outputPath string) error {
	segments := domain.MemberTypes()
	categories := make([]string, len(segments))
	position := make(map[domain.MemberType]int, len(segments))
	for i, segment := range segments {
		categories[i] = string(segment)
		position[segment] = i
	}

	series := newSeries(len(categories))
	for _, s := range summaries {
		series[s.Segment][position[s.Segment]] = s.MeanMinutes
	}

	return r.renderGrouped(ctx, groupedChart{
		title:      "Average Ride Length by Rider Segment",
		yLabel:     "Average ride length (minutes)",
		categories: categories,
		series:     series,
		outputPath: outputPath,
	})
}

// RenderWeekdayCounts draws ride volume per weekday, grouped by segment.
func (r *Renderer) RenderWeekdayCounts(ctx context.Context, counts []analytics.WeekdayCount, outputPath string) error {
	days := domain.Weekdays()
	categories := make([]string, len(days))
	for i, day := range days {
		categories[i] = day.String()
	}

	series := newSeries(len(categories))
	for _, c := range counts {
		series[c.Segment][int(c.Day)] = float64(c.Rides)
	}

	return r.renderGrouped(ctx, groupedChart{
		title:      "Rides by Weekday",
		yLabel:     "Rides",
		categories: categories,
		series:     series,
		countAxis:  true,
		outputPath: outputPath,
	})
}

// RenderHourCounts draws ride volume per start hour, grouped by segment.
func (r *Renderer) RenderHourCounts(ctx context.Context, counts []analytics.HourCount, outputPath string) error {
	categories := make([]string, 24)
	for hour := 0; hour < 24; hour++ {
		categories[hour] = strconv.Itoa(hour)
	}

	series := newSeries(len(categories))
	for _, c := range counts {
		series[c.Segment][c.Hour] = float64(c.Rides)
	}

	return r.renderGrouped(ctx, groupedChart{
		title:      "Rides by Start Hour",
		yLabel:     "Rides",
		categories: categories,
		series:     series,
		countAxis:  true,
		outputPath: outputPath,
	})
}

// RenderMonthCounts draws ride volume per month, grouped by segment.
func (r *Renderer) RenderMonthCounts(ctx context.Context, counts []analytics.MonthCount, outputPath string) error {
	months := domain.Months()
	categories := make([]string, len(months))
	for i, month := range months {
		categories[i] = month.String()
	}

	series := newSeries(len(categories))
	for _, c := range counts {
		series[c.Segment][int(c.Month)-1] = float64(c.Rides)
	}

	return r.renderGrouped(ctx, groupedChart{
		title:      "Rides by Month",
		yLabel:     "Rides",
		categories: categories,
		series:     series,
		countAxis:  true,
		outputPath: outputPath,
	})
}

// newSeries allocates a zero-filled value vector per segment, one slot per
// category, so sparse aggregates render as zero-height bars.
func newSeries(categories int) map[domain.MemberType][]float64 {
	series := make(map[domain.MemberType][]float64, len(domain.MemberTypes()))
	for _, segment := range domain.MemberTypes() {
		series[segment] = make([]float64, categories)
	}
	return series
}

// groupedChart is the render input shared by the four chart kinds.
type groupedChart struct {
	title      string
	yLabel     string
	categories []string
	series     map[domain.MemberType][]float64
	countAxis  bool
	outputPath string
}

// renderGrouped draws a dodged bar chart: one bar set per segment, offset
// around each category position.
func (r *Renderer) renderGrouped(ctx context.Context, spec groupedChart) error {
	p := plot.New()
	p.Title.Text = spec.title
	p.Y.Label.Text = spec.yLabel
	if spec.countAxis {
		p.Y.Tick.Marker = commaTicks{}
	}

	segments := domain.MemberTypes()
	barWidth := vg.Points(240) / vg.Length(len(spec.categories)*len(segments))

	for i, segment := range segments {
		bars, err := plotter.NewBarChart(plotter.Values(spec.series[segment]), barWidth)
		if err != nil {
			return fmt.Errorf("build bar set for segment %s: %w", segment, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth*vg.Length(i) - barWidth*vg.Length(len(segments)-1)/2

		p.Add(bars)
		p.Legend.Add(string(segment), bars)
	}

	p.Legend.Top = true
	p.NominalX(spec.categories...)

	if err := os.MkdirAll(filepath.Dir(spec.outputPath), 0755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	if err := p.Save(chartWidth, chartHeight, spec.outputPath); err != nil {
		return fmt.Errorf("save chart %s: %w", spec.outputPath, err)
	}

	r.logger.InfoContext(ctx, "Rendered chart",
		slog.String("title", spec.title),
		slog.String("path", spec.outputPath))
	return nil
}

// commaTicks wraps the default tick marker and rewrites the labels with
// thousands separators, so a 1,200,000-ride axis stays readable.
type commaTicks struct{}

func (commaTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = humanize.Comma(int64(math.Round(t.Value)))
	}
	return ticks
}
