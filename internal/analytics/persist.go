package analytics

import (
	"fmt"
	"strconv"

	"ridecli/internal/exporter"
)

// The aggregate CSVs put the numbers behind each chart in the reports
// directory, one file per aggregate, rows in the same order as the chart
// categories.

// SaveSegmentSummaryCSV writes the per-segment summary.
func SaveSegmentSummaryCSV(w *exporter.CSVWriter, filePath string, summaries []SegmentSummary) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no segment summaries to save")
	}

	header := []string{
		"member_casual",
		"rides",
		"mean_minutes",
		"median_minutes",
		"min_minutes",
		"max_minutes",
		"stddev_minutes",
	}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			string(s.Segment),
			strconv.Itoa(s.Rides),
			formatMinutes(s.MeanMinutes),
			formatMinutes(s.MedianMinutes),
			formatMinutes(s.MinMinutes),
			formatMinutes(s.MaxMinutes),
			formatMinutes(s.StdDevMinutes),
		})
	}

	return w.WriteSimpleCSV(filePath, header, records)
}

// SaveWeekdayCountsCSV writes the per-segment-per-weekday counts.
func SaveWeekdayCountsCSV(w *exporter.CSVWriter, filePath string, counts []WeekdayCount) error {
	if len(counts) == 0 {
		return fmt.Errorf("no weekday counts to save")
	}

	header := []string{"member_casual", "day_of_week", "rides", "mean_minutes"}

	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{
			string(c.Segment),
			c.Day.String(),
			strconv.Itoa(c.Rides),
			formatMinutes(c.MeanMinutes),
		})
	}

	return w.WriteSimpleCSV(filePath, header, records)
}

// SaveHourCountsCSV writes the per-segment-per-start-hour counts.
func SaveHourCountsCSV(w *exporter.CSVWriter, filePath string, counts []HourCount) error {
	if len(counts) == 0 {
		return fmt.Errorf("no start-hour counts to save")
	}

	header := []string{"member_casual", "start_hour", "rides"}

	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{
			string(c.Segment),
			strconv.Itoa(c.Hour),
			strconv.Itoa(c.Rides),
		})
	}

	return w.WriteSimpleCSV(filePath, header, records)
}

// SaveMonthCountsCSV writes the per-segment-per-month counts.
func SaveMonthCountsCSV(w *exporter.CSVWriter, filePath string, counts []MonthCount) error {
	if len(counts) == 0 {
		return fmt.Errorf("no month counts to save")
	}

	header := []string{"member_casual", "month", "rides"}

	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{
			string(c.Segment),
			c.Month.String(),
			strconv.Itoa(c.Rides),
		})
	}

	return w.WriteSimpleCSV(filePath, header, records)
}

// formatMinutes formats a minutes value for CSV output
func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
