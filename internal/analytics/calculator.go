package analytics

import (
	"context"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "ridecli/internal/errors"
	"ridecli/pkg/contracts/domain"
)

// Calculator computes the descriptive aggregates over a cleaned record
// set. Every aggregate is a pure pass over the records; nothing is cached
// between calls. Output ordering always follows the segment order of
// domain.MemberTypes and then the ordinal of the grouping enum, so rows
// and the charts built from them line up without re-sorting.
type Calculator struct {
	logger *slog.Logger
}

// NewCalculator creates a calculator. A nil logger falls back to the
// default.
func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// SegmentSummaries computes the per-segment ride-length summary: mean,
// median, min, max, sample standard deviation, and ride count.
func (c *Calculator) SegmentSummaries(ctx context.Context, records []domain.RideRecord) ([]SegmentSummary, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no records to summarize")
	}

	lengths := make(map[domain.MemberType][]float64)
	for i := range records {
		r := &records[i]
		lengths[r.MemberCasual] = append(lengths[r.MemberCasual], r.RideLength)
	}

	var summaries []SegmentSummary
	for _, segment := range domain.MemberTypes() {
		xs, ok := lengths[segment]
		if !ok {
			continue
		}
		sort.Float64s(xs)

		summaries = append(summaries, SegmentSummary{
			Segment:       segment,
			Rides:         len(xs),
			MeanMinutes:   stat.Mean(xs, nil),
			MedianMinutes: median(xs),
			MinMinutes:    floats.Min(xs),
			MaxMinutes:    floats.Max(xs),
			StdDevMinutes: stat.StdDev(xs, nil),
		})
	}

	c.logger.InfoContext(ctx, "Computed segment summaries",
		slog.Int("segments", len(summaries)))
	return summaries, nil
}

// median returns the sample median of a sorted slice: the middle value
// for odd n, the mean of the two middle values for even n.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// WeekdayCounts computes ride count and mean ride length per
// (segment, weekday), ordered by segment then weekday ordinal. Only
// observed combinations appear.
func (c *Calculator) WeekdayCounts(ctx context.Context, records []domain.RideRecord) ([]WeekdayCount, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no records to count by weekday")
	}

	type cell struct {
		rides int
		total float64
	}
	type key struct {
		segment domain.MemberType
		day     domain.Weekday
	}
	cells := make(map[key]*cell)
	for i := range records {
		r := &records[i]
		k := key{r.MemberCasual, r.DayOfWeek}
		if cells[k] == nil {
			cells[k] = &cell{}
		}
		cells[k].rides++
		cells[k].total += r.RideLength
	}

	var counts []WeekdayCount
	for _, segment := range domain.MemberTypes() {
		for _, day := range domain.Weekdays() {
			if c, ok := cells[key{segment, day}]; ok {
				counts = append(counts, WeekdayCount{
					Segment:     segment,
					Day:         day,
					Rides:       c.rides,
					MeanMinutes: c.total / float64(c.rides),
				})
			}
		}
	}

	c.logger.InfoContext(ctx, "Computed weekday counts",
		slog.Int("groups", len(counts)))
	return counts, nil
}

// HourCounts computes ride count per (segment, start hour), the hour being
// derived from started_at, ordered by segment then hour.
func (c *Calculator) HourCounts(ctx context.Context, records []domain.RideRecord) ([]HourCount, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no records to count by start hour")
	}

	type key struct {
		segment domain.MemberType
		hour    int
	}
	cells := make(map[key]int)
	for i := range records {
		r := &records[i]
		cells[key{r.MemberCasual, r.HourOfDay()}]++
	}

	var counts []HourCount
	for _, segment := range domain.MemberTypes() {
		for hour := 0; hour < 24; hour++ {
			if n, ok := cells[key{segment, hour}]; ok {
				counts = append(counts, HourCount{Segment: segment, Hour: hour, Rides: n})
			}
		}
	}

	c.logger.InfoContext(ctx, "Computed start-hour counts",
		slog.Int("groups", len(counts)))
	return counts, nil
}

// MonthCounts computes ride count per (segment, month), ordered by segment
// then month ordinal.
func (c *Calculator) MonthCounts(ctx context.Context, records []domain.RideRecord) ([]MonthCount, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no records to count by month")
	}

	type key struct {
		segment domain.MemberType
		month   domain.Month
	}
	cells := make(map[key]int)
	for i := range records {
		r := &records[i]
		cells[key{r.MemberCasual, r.Month}]++
	}

	var counts []MonthCount
	for _, segment := range domain.MemberTypes() {
		for _, month := range domain.Months() {
			if n, ok := cells[key{segment, month}]; ok {
				counts = append(counts, MonthCount{Segment: segment, Month: month, Rides: n})
			}
		}
	}

	c.logger.InfoContext(ctx, "Computed month counts",
		slog.Int("groups", len(counts)))
	return counts, nil
}
