package dataprocessing

import (
	"strings"
	"time"

	"ridecli/pkg/contracts/domain"
)

// DeriveStats reports what derivation did to the combined set.
type DeriveStats struct {
	RowsIn        int
	RowsOut       int
	BadTimestamps int
}

// DeriveRecords turns the combined table into ride records. Both timestamps
// are parsed with the fixed layout; rows where either fails to parse are
// dropped and counted. ride_length is the signed difference in minutes, and
// day_of_week and month are derived from started_at. member_casual is
// carried through as-is here; the cast to the bounded segment set happens in
// finalization, after the quality filters.
func DeriveRecords(combined *Table) ([]domain.RideRecord, DeriveStats) {
	stats := DeriveStats{RowsIn: combined.RowCount()}
	records := make([]domain.RideRecord, 0, combined.RowCount())

	for i := 0; i < combined.RowCount(); i++ {
		startedAt, err := time.Parse(domain.TimestampLayout, strings.TrimSpace(combined.Value(i, ColStartedAt)))
		if err != nil {
			stats.BadTimestamps++
			continue
		}
		endedAt, err := time.Parse(domain.TimestampLayout, strings.TrimSpace(combined.Value(i, ColEndedAt)))
		if err != nil {
			stats.BadTimestamps++
			continue
		}

		records = append(records, domain.RideRecord{
			RideID:           strings.TrimSpace(combined.Value(i, ColRideID)),
			StartedAt:        startedAt,
			EndedAt:          endedAt,
			RideLength:       endedAt.Sub(startedAt).Minutes(),
			DayOfWeek:        domain.WeekdayOf(startedAt),
			Month:            domain.MonthOf(startedAt),
			StartStationName: strings.TrimSpace(combined.Value(i, ColStartStationName)),
			EndStationName:   strings.TrimSpace(combined.Value(i, ColEndStationName)),
			MemberCasual:     domain.MemberType(strings.TrimSpace(combined.Value(i, ColMemberCasual))),
		})
	}

	stats.RowsOut = len(records)
	return records, stats
}
