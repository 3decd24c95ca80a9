package dataprocessing

import (
	"ridecli/internal/config"
	"ridecli/pkg/contracts/domain"
)

// Drop reasons recorded per quality predicate. These labels appear in logs
// and in the run manifest, so they are stable identifiers.
const (
	DropEmptyRideID    = "empty_ride_id"
	DropEmptyStation   = "empty_station_name"
	DropDuplicateRide  = "duplicate_ride_id"
	DropNonPositive    = "non_positive_ride_length"
	DropOutOfRange     = "ride_length_out_of_range"
	DropUnknownSegment = "unknown_member_casual"
)

// DropCount pairs a drop reason with the number of rows it matched.
type DropCount struct {
	Reason string `json:"reason"`
	Rows   int    `json:"rows"`
}

// FilterReport summarizes one pass of the quality filters. Drops holds one
// entry per predicate in a fixed order. Because the predicates are
// independent, a row failing several of them is counted under each, so the
// per-reason counts can sum to more than RowsIn-RowsOut.
type FilterReport struct {
	RowsIn  int         `json:"rows_in"`
	RowsOut int         `json:"rows_out"`
	Drops   []DropCount `json:"drops"`
}

// DroppedFor returns the count recorded for a reason, zero if absent.
func (r FilterReport) DroppedFor(reason string) int {
	for _, d := range r.Drops {
		if d.Reason == reason {
			return d.Rows
		}
	}
	return 0
}

// ApplyQualityFilters evaluates the five quality predicates over the
// derived set. Each predicate is an independent boolean mask with its own
// removed-row count; the union of the masks is applied once, preserving
// the order of the surviving rows.
//
// Predicates: empty ride_id; empty start or end station name; duplicate
// ride_id keeping the first occurrence; non-positive ride_length;
// ride_length outside the open (MinRideLengthMinutes, MaxRideLengthMinutes)
// interval.
func ApplyQualityFilters(records []domain.RideRecord) ([]domain.RideRecord, FilterReport) {
	report := FilterReport{RowsIn: len(records)}

	drop := make([]bool, len(records))
	counts := map[string]int{}

	mark := func(i int, reason string) {
		drop[i] = true
		counts[reason]++
	}

	// Duplicate detection runs over the full set, before any other mask,
	// so "first occurrence" means first in combined order regardless of
	// what the other predicates remove.
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if _, dup := seen[records[i].RideID]; dup {
			mark(i, DropDuplicateRide)
		} else {
			seen[records[i].RideID] = struct{}{}
		}
	}

	for i := range records {
		r := &records[i]
		if r.RideID == "" {
			mark(i, DropEmptyRideID)
		}
		if r.StartStationName == "" || r.EndStationName == "" {
			mark(i, DropEmptyStation)
		}
		if r.RideLength <= 0 {
			mark(i, DropNonPositive)
		}
		if r.RideLength <= config.MinRideLengthMinutes || r.RideLength >= config.MaxRideLengthMinutes {
			mark(i, DropOutOfRange)
		}
	}

	kept := make([]domain.RideRecord, 0, len(records))
	for i := range records {
		if !drop[i] {
			kept = append(kept, records[i])
		}
	}

	for _, reason := range []string{
		DropEmptyRideID, DropEmptyStation, DropDuplicateRide,
		DropNonPositive, DropOutOfRange,
	} {
		report.Drops = append(report.Drops, DropCount{Reason: reason, Rows: counts[reason]})
	}
	report.RowsOut = len(kept)
	return kept, report
}

// FinalizeSegments casts member_casual to the bounded segment set. Labels
// are normalized (trimmed, lower-cased) and rows whose label falls outside
// {member, casual} are dropped and counted, mirroring a factor cast with
// fixed categories.
func FinalizeSegments(records []domain.RideRecord) ([]domain.RideRecord, int) {
	kept := make([]domain.RideRecord, 0, len(records))
	dropped := 0
	for i := range records {
		segment, err := domain.ParseMemberType(string(records[i].MemberCasual))
		if err != nil {
			dropped++
			continue
		}
		records[i].MemberCasual = segment
		kept = append(kept, records[i])
	}
	return kept, dropped
}

// SegmentMonthCell is one cell of the (member_casual, month) frequency
// table emitted for operator inspection after finalization.
type SegmentMonthCell struct {
	Segment domain.MemberType
	Month   domain.Month
	Rides   int
}

// SegmentMonthFrequency tabulates rides per (segment, month) pair. Cells
// are ordered by segment then month ordinal; only observed pairs appear.
func SegmentMonthFrequency(records []domain.RideRecord) []SegmentMonthCell {
	type key struct {
		segment domain.MemberType
		month   domain.Month
	}
	counts := make(map[key]int)
	for i := range records {
		counts[key{records[i].MemberCasual, records[i].Month}]++
	}

	var cells []SegmentMonthCell
	for _, segment := range domain.MemberTypes() {
		for _, month := range domain.Months() {
			if n, ok := counts[key{segment, month}]; ok {
				cells = append(cells, SegmentMonthCell{Segment: segment, Month: month, Rides: n})
			}
		}
	}
	return cells
}
