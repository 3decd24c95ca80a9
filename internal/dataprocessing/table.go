package dataprocessing

import (
	"strings"
)

// Canonical column names used throughout the cleaning pipeline. Extract
// headers are normalized before they are matched against these.
const (
	ColRideID           = "ride_id"
	ColStartedAt        = "started_at"
	ColEndedAt          = "ended_at"
	ColStartStationName = "start_station_name"
	ColEndStationName   = "end_station_name"
	ColMemberCasual     = "member_casual"
)

// RequiredFileColumns are the columns a single extract must carry to be
// usable at all; a file missing any of them is excluded from the run.
var RequiredFileColumns = []string{ColStartedAt, ColEndedAt}

// RequiredCombinedColumns are the columns the combined set must carry for
// the run to continue. Their absence is a fatal condition.
var RequiredCombinedColumns = []string{ColRideID, ColStartedAt, ColEndedAt}

// Table holds the raw tabular content of one or more extracts: normalized
// header names in column order plus string rows padded to header width.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given raw headers. Header names
// are normalized; when normalization collapses two headers to the same name
// the first occurrence wins.
func NewTable(source string, rawHeaders []string) *Table {
	t := &Table{
		Source:  source,
		Headers: make([]string, 0, len(rawHeaders)),
		index:   make(map[string]int, len(rawHeaders)),
	}
	for _, raw := range rawHeaders {
		name := NormalizeHeader(raw)
		t.Headers = append(t.Headers, name)
		if _, exists := t.index[name]; !exists {
			t.index[name] = len(t.Headers) - 1
		}
	}
	return t
}

// NormalizeHeader canonicalizes a raw header cell: BOM and zero-width
// characters removed, trimmed, lower-cased, internal whitespace and dashes
// collapsed to single underscores. "Ride ID" and "ride_id" normalize to the
// same name.
func NormalizeHeader(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "\uFEFF")
	clean = strings.ReplaceAll(clean, "\u200b", "")
	clean = strings.ToLower(strings.TrimSpace(clean))

	var b strings.Builder
	b.Grow(len(clean))
	lastUnderscore := false
	for _, r := range clean {
		switch r {
		case ' ', '\t', '-':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		case '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ColumnIndex returns the position of a normalized column name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of names the table does not carry,
// in the order given.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// AppendRow adds a data row, padding short rows with empty values and
// truncating rows longer than the header. Returns true when the row had to
// be truncated.
func (t *Table) AppendRow(row []string) bool {
	truncated := false
	switch {
	case len(row) > len(t.Headers):
		row = row[:len(t.Headers)]
		truncated = true
	case len(row) < len(t.Headers):
		padded := make([]string, len(t.Headers))
		copy(padded, row)
		row = padded
	}
	t.Rows = append(t.Rows, row)
	return truncated
}

// Value returns the cell at the given row for a named column, or the empty
// string when the column does not exist.
func (t *Table) Value(rowIdx int, name string) string {
	idx, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.Rows[rowIdx][idx]
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Combine merges tables into one using an outer column union: the combined
// header set is the union of all headers in first-seen order, and rows from
// tables lacking a column carry an empty value for it. Row order follows
// the order of the input tables, which discovery keeps sorted by file name,
// so the combined set is deterministic.
func Combine(tables []*Table) *Table {
	combined := NewTable("combined", nil)
	for _, t := range tables {
		for _, name := range t.Headers {
			if !combined.HasColumn(name) {
				combined.Headers = append(combined.Headers, name)
				combined.index[name] = len(combined.Headers) - 1
			}
		}
	}

	for _, t := range tables {
		for i := range t.Rows {
			row := make([]string, len(combined.Headers))
			for j, name := range combined.Headers {
				if srcIdx, ok := t.index[name]; ok {
					row[j] = t.Rows[i][srcIdx]
				}
			}
			combined.Rows = append(combined.Rows, row)
		}
	}
	return combined
}
