// Package datetime provides standardized date and time handling across the application.
// All dates are stored and transmitted in UTC timezone using ISO 8601 format.
package datetime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Standard date formats used throughout the application.
const (
	// DateFormat is the standard date-only format (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// MonthFormat is the month-key format (YYYY-MM) used for filtering.
	MonthFormat = "2006-01"

	// DateTimeFormat is the standard datetime format (ISO 8601 / RFC3339).
	DateTimeFormat = time.RFC3339
)

// Date represents a date-only value (no time component).
// It serializes to/from JSON as "YYYY-MM-DD" format.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns today's date in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates a time to its UTC calendar date.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// ParseStatementDate parses the date formats found in bank and card CSV
// statements. Slash-separated dates are day first (DD/MM/YYYY), hyphen
// separated dates are year first (YYYY-MM-DD). Two digit years are taken
// as 20YY. Out of range components are rejected.
func ParseStatementDate(s string) (Date, error) {
	s = strings.TrimSpace(s)

	var parts []string
	var year, month, day string
	switch {
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
		if len(parts) != 3 {
			return Date{}, fmt.Errorf("unrecognized date %q", s)
		}
		day, month, year = parts[0], parts[1], parts[2]
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
		if len(parts) != 3 {
			return Date{}, fmt.Errorf("unrecognized date %q", s)
		}
		year, month, day = parts[0], parts[1], parts[2]
	default:
		return Date{}, fmt.Errorf("unrecognized date %q", s)
	}

	if len(year) == 2 {
		year = "20" + year
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}

	// time.Parse rejects impossible calendar dates such as 2024-02-31.
	t, err := time.Parse(DateFormat, year+"-"+month+"-"+day)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateFormat))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}

	// Try date-only format first
	t, err := time.Parse(DateFormat, s)
	if err == nil {
		d.Time = t
		return nil
	}

	// Fall back to RFC3339 (extract date portion)
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}

	return err
}

// String returns the date in YYYY-MM-DD format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// MonthKey returns the YYYY-MM key of the date.
func (d Date) MonthKey() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(MonthFormat)
}

// AddRecurrence advances the date by one daily, weekly, monthly or
// yearly step, expressed in days, months and years.
func (d Date) AddRecurrence(days, months, years int) Date {
	return Date{d.AddDate(years, months, days)}
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time).Hours() / 24)
}

// DateTime represents a datetime value with timezone.
// It serializes to/from JSON as ISO 8601 / RFC3339 format.
type DateTime struct {
	time.Time
}

// Now returns the current datetime in UTC.
func Now() DateTime {
	return DateTime{time.Now().UTC()}
}

// ParseDateTime parses a datetime string in RFC3339 format.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{t}, nil
}

// MarshalJSON implements json.Marshaler.
func (dt DateTime) MarshalJSON() ([]byte, error) {
	if dt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(dt.UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (dt *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try date-only format as fallback
		t, err = time.Parse(DateFormat, s)
		if err != nil {
			return err
		}
	}
	dt.Time = t.UTC()
	return nil
}

// String returns the datetime in RFC3339 format.
func (dt DateTime) String() string {
	if dt.IsZero() {
		return ""
	}
	return dt.UTC().Format(time.RFC3339)
}

// ToDate extracts the date portion from a DateTime.
func (dt DateTime) ToDate() Date {
	return NewDate(dt.Year(), dt.Month(), dt.Day())
}

// StartOfDay returns the datetime at 00:00:00 UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the datetime at 23:59:59.999999999 UTC.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}

// StartOfMonth returns the first day of the month at 00:00:00 UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of the month at 23:59:59.999999999 UTC.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
