package linkrow

import (
	"errors"
	"strings"
	"time"
)

// DefaultDateLayout renders a calendar day; it sorts lexically in chronological order.
const DefaultDateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var errUnparsableTimestamp = errors.New("timestamp matches no known layout")

// ParseTimestamp parses the timestamp formats accepted in records.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparsableTimestamp
}

// DateFormatter turns timestamps into display days.
// The zero value formats with DefaultDateLayout in UTC.
type DateFormatter struct {
	Layout   string
	Location *time.Location
}

func (f DateFormatter) layout() string {
	if f.Layout == "" {
		return DefaultDateLayout
	}
	return f.Layout
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Format returns the display day for timestamp or an *InvalidDateError.
func (f DateFormatter) Format(timestamp string) (string, error) {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return "", &InvalidDateError{Value: timestamp, Err: err}
	}
	return t.In(f.location()).Format(f.layout()), nil
}

// Compare orders two strings produced by Format chronologically.
// Strings that do not parse with the formatter's layout fall back to lexical order.
func (f DateFormatter) Compare(a, b string) int {
	ta, errA := time.ParseInLocation(f.layout(), a, f.location())
	tb, errB := time.ParseInLocation(f.layout(), b, f.location())
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}

// FormatDisplayDate formats timestamp with the default formatter.
func FormatDisplayDate(timestamp string) (string, error) {
	return DateFormatter{}.Format(timestamp)
}
