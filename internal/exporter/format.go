package exporter

import (
	"fmt"
	"time"

	"ridecli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatTimestamp formats a timestamp with the fixed extract layout
func formatTimestamp(t time.Time) string {
	return t.Format(domain.TimestampLayout)
}
