package analytics

import (
	"ridecli/pkg/contracts/domain"
)

// SegmentSummary holds the descriptive ride-length statistics for one
// rider segment. StdDevMinutes is the sample standard deviation (n-1);
// for a single-ride segment it is NaN, mirroring how the statistic is
// undefined there.
type SegmentSummary struct {
	Segment       domain.MemberType `json:"segment"`
	Rides         int               `json:"rides"`
	MeanMinutes   float64           `json:"mean_minutes"`
	MedianMinutes float64           `json:"median_minutes"`
	MinMinutes    float64           `json:"min_minutes"`
	MaxMinutes    float64           `json:"max_minutes"`
	StdDevMinutes float64           `json:"stddev_minutes"`
}

// WeekdayCount is the ride volume and mean length for one
// (segment, weekday) pair.
type WeekdayCount struct {
	Segment     domain.MemberType `json:"segment"`
	Day         domain.Weekday    `json:"day_of_week"`
	Rides       int               `json:"rides"`
	MeanMinutes float64           `json:"mean_minutes"`
}

// HourCount is the ride volume for one (segment, start hour) pair.
type HourCount struct {
	Segment domain.MemberType `json:"segment"`
	Hour    int               `json:"start_hour"`
	Rides   int               `json:"rides"`
}

// MonthCount is the ride volume for one (segment, month) pair.
type MonthCount struct {
	Segment domain.MemberType `json:"segment"`
	Month   domain.Month      `json:"month"`
	Rides   int               `json:"rides"`
}
