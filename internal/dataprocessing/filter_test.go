package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecli/pkg/contracts/domain"
)

func ride(id string, length float64) domain.RideRecord {
	startedAt := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return domain.RideRecord{
		RideID:           id,
		StartedAt:        startedAt,
		EndedAt:          startedAt.Add(time.Duration(length * float64(time.Minute))),
		RideLength:       length,
		DayOfWeek:        domain.WeekdayOf(startedAt),
		Month:            domain.MonthOf(startedAt),
		StartStationName: "Clark St",
		EndStationName:   "State St",
		MemberCasual:     domain.MemberTypeMember,
	}
}

func TestApplyQualityFilters_CleanSet(t *testing.T) {
	records := []domain.RideRecord{ride("R1", 10), ride("R2", 20), ride("R3", 30)}

	kept, report := ApplyQualityFilters(records)

	assert.Len(t, kept, 3)
	assert.Equal(t, 3, report.RowsIn)
	assert.Equal(t, 3, report.RowsOut)
	for _, d := range report.Drops {
		assert.Zero(t, d.Rows, "reason %s should not fire on a clean set", d.Reason)
	}
}

func TestApplyQualityFilters_Predicates(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *domain.RideRecord)
		wantReason string
	}{
		{
			name:       "empty ride_id",
			mutate:     func(r *domain.RideRecord) { r.RideID = "" },
			wantReason: DropEmptyRideID,
		},
		{
			name:       "empty start station",
			mutate:     func(r *domain.RideRecord) { r.StartStationName = "" },
			wantReason: DropEmptyStation,
		},
		{
			name:       "empty end station",
			mutate:     func(r *domain.RideRecord) { r.EndStationName = "" },
			wantReason: DropEmptyStation,
		},
		{
			name:       "zero length",
			mutate:     func(r *domain.RideRecord) { r.RideLength = 0 },
			wantReason: DropNonPositive,
		},
		{
			name:       "negative length",
			mutate:     func(r *domain.RideRecord) { r.RideLength = -5 },
			wantReason: DropNonPositive,
		},
		{
			name:       "exactly one minute",
			mutate:     func(r *domain.RideRecord) { r.RideLength = 1.0 },
			wantReason: DropOutOfRange,
		},
		{
			name:       "exactly one day",
			mutate:     func(r *domain.RideRecord) { r.RideLength = 1440.0 },
			wantReason: DropOutOfRange,
		},
		{
			name:       "longer than one day",
			mutate:     func(r *domain.RideRecord) { r.RideLength = 2880.0 },
			wantReason: DropOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := ride("BAD", 15)
			tt.mutate(&bad)
			records := []domain.RideRecord{ride("R1", 10), bad, ride("R2", 20)}

			kept, report := ApplyQualityFilters(records)

			require.Len(t, kept, 2)
			assert.Equal(t, "R1", kept[0].RideID)
			assert.Equal(t, "R2", kept[1].RideID)
			assert.Equal(t, 1, report.DroppedFor(tt.wantReason))
		})
	}
}

func TestApplyQualityFilters_BoundaryLengthsSurvive(t *testing.T) {
	records := []domain.RideRecord{
		ride("JUST_OVER_MIN", 1.01),
		ride("JUST_UNDER_MAX", 1439.99),
	}

	kept, report := ApplyQualityFilters(records)

	assert.Len(t, kept, 2)
	assert.Equal(t, 0, report.DroppedFor(DropOutOfRange))
	assert.Equal(t, 0, report.DroppedFor(DropNonPositive))
}

func TestApplyQualityFilters_DuplicateKeepsFirst(t *testing.T) {
	first := ride("DUP", 10)
	first.StartStationName = "First Occurrence"
	second := ride("DUP", 20)
	second.StartStationName = "Second Occurrence"

	records := []domain.RideRecord{first, ride("R1", 15), second}

	kept, report := ApplyQualityFilters(records)

	require.Len(t, kept, 2)
	assert.Equal(t, "DUP", kept[0].RideID)
	assert.Equal(t, "First Occurrence", kept[0].StartStationName)
	assert.Equal(t, "R1", kept[1].RideID)
	assert.Equal(t, 1, report.DroppedFor(DropDuplicateRide))
}

func TestApplyQualityFilters_EmptyIDsAlsoDuplicate(t *testing.T) {
	// Two rows with empty ride_ids: both fail the empty-ride_id predicate,
	// and the second is additionally a duplicate of the first.
	records := []domain.RideRecord{ride("", 10), ride("", 20), ride("R1", 15)}

	kept, report := ApplyQualityFilters(records)

	require.Len(t, kept, 1)
	assert.Equal(t, "R1", kept[0].RideID)
	assert.Equal(t, 2, report.DroppedFor(DropEmptyRideID))
	assert.Equal(t, 1, report.DroppedFor(DropDuplicateRide))
}

func TestApplyQualityFilters_IndependentCounts(t *testing.T) {
	// One row failing several predicates is counted under each, so the
	// per-reason counts sum past the net removed rows.
	bad := ride("BAD", -10)
	bad.StartStationName = ""

	records := []domain.RideRecord{ride("R1", 10), bad}

	kept, report := ApplyQualityFilters(records)

	require.Len(t, kept, 1)
	assert.Equal(t, 1, report.DroppedFor(DropEmptyStation))
	assert.Equal(t, 1, report.DroppedFor(DropNonPositive))
	assert.Equal(t, 1, report.DroppedFor(DropOutOfRange))
	assert.Equal(t, 2, report.RowsIn)
	assert.Equal(t, 1, report.RowsOut)

	total := 0
	for _, d := range report.Drops {
		total += d.Rows
	}
	assert.Greater(t, total, report.RowsIn-report.RowsOut)
}

func TestApplyQualityFilters_DropOrder(t *testing.T) {
	_, report := ApplyQualityFilters([]domain.RideRecord{ride("R1", 10)})

	reasons := make([]string, 0, len(report.Drops))
	for _, d := range report.Drops {
		reasons = append(reasons, d.Reason)
	}
	assert.Equal(t, []string{
		DropEmptyRideID, DropEmptyStation, DropDuplicateRide,
		DropNonPositive, DropOutOfRange,
	}, reasons)
}

func TestFinalizeSegments(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		wantKept    bool
		wantSegment domain.MemberType
	}{
		{
			name:        "member",
			label:       "member",
			wantKept:    true,
			wantSegment: domain.MemberTypeMember,
		},
		{
			name:        "casual",
			label:       "casual",
			wantKept:    true,
			wantSegment: domain.MemberTypeCasual,
		},
		{
			name:        "mixed case normalizes",
			label:       "Member",
			wantKept:    true,
			wantSegment: domain.MemberTypeMember,
		},
		{
			name:        "padded label normalizes",
			label:       " CASUAL ",
			wantKept:    true,
			wantSegment: domain.MemberTypeCasual,
		},
		{
			name:     "unknown label dropped",
			label:    "subscriber",
			wantKept: false,
		},
		{
			name:     "empty label dropped",
			label:    "",
			wantKept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ride("R1", 10)
			r.MemberCasual = domain.MemberType(tt.label)

			kept, dropped := FinalizeSegments([]domain.RideRecord{r})

			if tt.wantKept {
				require.Len(t, kept, 1)
				assert.Equal(t, 0, dropped)
				assert.Equal(t, tt.wantSegment, kept[0].MemberCasual)
			} else {
				assert.Empty(t, kept)
				assert.Equal(t, 1, dropped)
			}
		})
	}
}

func TestSegmentMonthFrequency(t *testing.T) {
	june := ride("M1", 10)
	june.Month = domain.June
	juneCasual := ride("C1", 12)
	juneCasual.Month = domain.June
	juneCasual.MemberCasual = domain.MemberTypeCasual
	january := ride("M2", 14)

	cells := SegmentMonthFrequency([]domain.RideRecord{june, juneCasual, january, june})

	// Ordered by segment then month; unobserved pairs absent.
	require.Len(t, cells, 3)
	assert.Equal(t, SegmentMonthCell{Segment: domain.MemberTypeMember, Month: domain.January, Rides: 1}, cells[0])
	assert.Equal(t, SegmentMonthCell{Segment: domain.MemberTypeMember, Month: domain.June, Rides: 2}, cells[1])
	assert.Equal(t, SegmentMonthCell{Segment: domain.MemberTypeCasual, Month: domain.June, Rides: 1}, cells[2])
}

func TestSegmentMonthFrequency_Empty(t *testing.T) {
	assert.Empty(t, SegmentMonthFrequency(nil))
}
