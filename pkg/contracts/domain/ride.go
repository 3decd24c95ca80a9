package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the fixed wire format for ride timestamps in raw
// extracts and in the cleaned artifact.
const TimestampLayout = "2006-01-02 15:04:05"

// MemberType is the rider segmentation category, the primary grouping key
// for every downstream aggregate.
type MemberType string

const (
	MemberTypeMember MemberType = "member"
	MemberTypeCasual MemberType = "casual"
)

// MemberTypes returns the two segments in their fixed presentation order.
func MemberTypes() []MemberType {
	return []MemberType{MemberTypeMember, MemberTypeCasual}
}

// Valid reports whether m is one of the two defined segments.
func (m MemberType) Valid() bool {
	return m == MemberTypeMember || m == MemberTypeCasual
}

// ParseMemberType resolves a raw label to its MemberType. Labels outside
// the fixed set are an error; callers drop and count such rows.
func ParseMemberType(s string) (MemberType, error) {
	switch MemberType(strings.ToLower(strings.TrimSpace(s))) {
	case MemberTypeMember:
		return MemberTypeMember, nil
	case MemberTypeCasual:
		return MemberTypeCasual, nil
	}
	return "", fmt.Errorf("unknown member_casual label: %q", s)
}

// RideRecord represents one bike-share trip after cleaning. It is the only
// entity in the system: the cleaning pipeline produces a set of these and
// the analysis stage consumes them.
type RideRecord struct {
	RideID           string     `json:"ride_id" csv:"ride_id" validate:"required"`
	StartedAt        time.Time  `json:"started_at" csv:"started_at"`
	EndedAt          time.Time  `json:"ended_at" csv:"ended_at"`
	RideLength       float64    `json:"ride_length" csv:"ride_length" validate:"gt=1,lt=1440"`
	DayOfWeek        Weekday    `json:"day_of_week" csv:"day_of_week"`
	Month            Month      `json:"month" csv:"month"`
	StartStationName string     `json:"start_station_name" csv:"start_station_name" validate:"required"`
	EndStationName   string     `json:"end_station_name" csv:"end_station_name" validate:"required"`
	MemberCasual     MemberType `json:"member_casual" csv:"member_casual" validate:"oneof=member casual"`
}

// HourOfDay derives the 0-23 start-hour category. It is computed on demand
// in the analysis stage and never persisted by the cleaning stage.
func (r *RideRecord) HourOfDay() int {
	return r.StartedAt.Hour()
}

// Validate checks the invariants every cleaned record must satisfy. The
// cleaning pipeline enforces these via its filters; loaders and tests use
// this to assert an artifact is well formed.
func (r *RideRecord) Validate() error {
	if r.RideID == "" {
		return fmt.Errorf("ride_id is empty")
	}
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return fmt.Errorf("ride %s: missing timestamp", r.RideID)
	}
	if r.RideLength <= 1 || r.RideLength >= 1440 {
		return fmt.Errorf("ride %s: ride_length %.2f outside (1, 1440)", r.RideID, r.RideLength)
	}
	if r.StartStationName == "" || r.EndStationName == "" {
		return fmt.Errorf("ride %s: missing station name", r.RideID)
	}
	if !r.MemberCasual.Valid() {
		return fmt.Errorf("ride %s: unknown member_casual %q", r.RideID, string(r.MemberCasual))
	}
	if r.DayOfWeek != WeekdayOf(r.StartedAt) {
		return fmt.Errorf("ride %s: day_of_week %s inconsistent with started_at", r.RideID, r.DayOfWeek)
	}
	if r.Month != MonthOf(r.StartedAt) {
		return fmt.Errorf("ride %s: month %s inconsistent with started_at", r.RideID, r.Month)
	}
	return nil
}
