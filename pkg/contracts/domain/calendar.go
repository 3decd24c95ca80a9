package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day-of-week category with a fixed Sunday-first ordering.
// The integer value is the sort key; ordering is never derived from the
// label strings (a lexical sort of labels is wrong: "Fri" < "Mon").
// Ordinals match time.Weekday so conversion is a plain cast.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// String returns the canonical short label used in artifacts and chart axes.
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

// Valid reports whether w is one of the seven defined days.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// ParseWeekday resolves a canonical short label ("Sun".."Sat"),
// case-insensitively, back to its Weekday.
func ParseWeekday(s string) (Weekday, error) {
	label := strings.TrimSpace(s)
	for i, l := range weekdayLabels {
		if strings.EqualFold(label, l) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday label: %q", s)
}

// WeekdayOf derives the Weekday category from a timestamp.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// Weekdays returns all days in their fixed Sunday-first order.
func Weekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Month is a calendar-month category with fixed January-first ordering.
// Ordinals match time.Month (January = 1) so conversion is a plain cast.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// String returns the canonical short label used in artifacts and chart axes.
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthLabels[m-1]
}

// Valid reports whether m is one of the twelve defined months.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// ParseMonth resolves a canonical short label ("Jan".."Dec"),
// case-insensitively, back to its Month.
func ParseMonth(s string) (Month, error) {
	label := strings.TrimSpace(s)
	for i, l := range monthLabels {
		if strings.EqualFold(label, l) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown month label: %q", s)
}

// MonthOf derives the Month category from a timestamp.
func MonthOf(t time.Time) Month {
	return Month(t.Month())
}

// Months returns all months in calendar order.
func Months() []Month {
	return []Month{
		January, February, March, April, May, June,
		July, August, September, October, November, December,
	}
}
