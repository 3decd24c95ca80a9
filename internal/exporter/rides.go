package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "ridecli/internal/errors"
	"ridecli/pkg/contracts/domain"
)

// RideCSVHeaders is the canonical column order of the cleaned CSV artifact.
// The analysis stage depends on exactly these columns being present.
var RideCSVHeaders = []string{
	"ride_id",
	"started_at",
	"ended_at",
	"ride_length",
	"day_of_week",
	"month",
	"start_station_name",
	"end_station_name",
	"member_casual",
}

// WriteRidesCSV writes the cleaned records to path as the canonical CSV
// artifact: fixed column order, timestamps in the fixed layout, ride_length
// with two decimals, day_of_week and month as their canonical short labels.
// The write is atomic; an aborted run leaves no partial artifact.
func WriteRidesCSV(path string, records []domain.RideRecord) error {
	sw, err := newStreamWriter(path, RideCSVHeaders)
	if err != nil {
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to create cleaned CSV %s", path), err)
	}

	for i := range records {
		if err := sw.WriteRecord(rideRow(&records[i])); err != nil {
			sw.Abort()
			return apperrors.NewStorageError(
				fmt.Sprintf("failed to write cleaned CSV row %d", i+1), err)
		}
	}

	if err := sw.Close(); err != nil {
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to finalize cleaned CSV %s", path), err)
	}
	return nil
}

// rideRow renders one record in RideCSVHeaders order.
func rideRow(r *domain.RideRecord) []string {
	return []string{
		r.RideID,
		formatTimestamp(r.StartedAt),
		formatTimestamp(r.EndedAt),
		formatFloat(r.RideLength),
		r.DayOfWeek.String(),
		r.Month.String(),
		r.StartStationName,
		r.EndStationName,
		string(r.MemberCasual),
	}
}

// LoadRidesCSV loads a cleaned CSV artifact. The loader is strict: a
// missing schema column or an unparseable value is an error immediately,
// because the cleaner can never produce either.
func LoadRidesCSV(path string) ([]domain.RideRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to read cleaned CSV %s", path), err)
	}

	text := strings.TrimPrefix(string(content), "\uFEFF")
	reader := csv.NewReader(strings.NewReader(text))

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read header of %s", filepath.Base(path)), err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if _, exists := cols[clean]; !exists {
			cols[clean] = i
		}
	}
	for _, name := range RideCSVHeaders {
		if _, ok := cols[name]; !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("cleaned data %s is missing column %s", filepath.Base(path), name))
		}
	}

	var records []domain.RideRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("failed to read row %d of %s", rowNum, filepath.Base(path)), err)
		}

		record, err := parseRideRow(row, cols)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("invalid row %d in %s", rowNum, filepath.Base(path)), err)
		}
		records = append(records, record)
	}

	return records, nil
}

// parseRideRow parses one artifact row using the resolved column indices.
func parseRideRow(row []string, cols map[string]int) (domain.RideRecord, error) {
	cell := func(name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	startedAt, err := time.Parse(domain.TimestampLayout, cell("started_at"))
	if err != nil {
		return domain.RideRecord{}, fmt.Errorf("started_at: %w", err)
	}
	endedAt, err := time.Parse(domain.TimestampLayout, cell("ended_at"))
	if err != nil {
		return domain.RideRecord{}, fmt.Errorf("ended_at: %w", err)
	}
	rideLength, err := strconv.ParseFloat(cell("ride_length"), 64)
	if err != nil {
		return domain.RideRecord{}, fmt.Errorf("ride_length: %w", err)
	}
	dayOfWeek, err := domain.ParseWeekday(cell("day_of_week"))
	if err != nil {
		return domain.RideRecord{}, err
	}
	month, err := domain.ParseMonth(cell("month"))
	if err != nil {
		return domain.RideRecord{}, err
	}
	memberCasual, err := domain.ParseMemberType(cell("member_casual"))
	if err != nil {
		return domain.RideRecord{}, err
	}

	return domain.RideRecord{
		RideID:           cell("ride_id"),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		RideLength:       rideLength,
		DayOfWeek:        dayOfWeek,
		Month:            month,
		StartStationName: cell("start_station_name"),
		EndStationName:   cell("end_station_name"),
		MemberCasual:     memberCasual,
	}, nil
}
