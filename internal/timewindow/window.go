// Package timewindow provides canonical time windows for temporal aggregation.
// Windows are half-open intervals [start, end) in UTC whose width is exactly
// one day, one calendar month, or one calendar year.
package timewindow

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the temporal aggregation level at which composites are produced.
type Granularity string

const (
	Day   Granularity = "Day"
	Month Granularity = "Month"
	Year  Granularity = "Year"
)

// Granularities lists all supported granularities in display order.
var Granularities = []Granularity{Day, Month, Year}

// InvalidGranularityError reports an unsupported granularity value.
type InvalidGranularityError string

func (e InvalidGranularityError) Error() string {
	return fmt.Sprintf("invalid granularity %q, must be one of: Day, Month, Year", string(e))
}

// ParseGranularity parses a granularity string (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return Day, nil
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	}
	return "", InvalidGranularityError(s)
}

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	return g == Day || g == Month || g == Year
}

// Window is a half-open interval [Start, End) at a canonical granularity.
// End is always the canonical successor of Start: the next day, the first
// instant of the next calendar month, or the first instant of the next year.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Containing returns the canonical window containing anchor at granularity g.
// An anchor exactly at a window boundary belongs to the window it starts.
func Containing(anchor time.Time, g Granularity) (Window, error) {
	t := anchor.UTC()
	switch g {
	case Day:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(0, 0, 1), Granularity: Day}, nil
	case Month:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(0, 1, 0), Granularity: Month}, nil
	case Year:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(1, 0, 0), Granularity: Year}, nil
	}
	return Window{}, InvalidGranularityError(g)
}

// Contains reports whether t falls within the window. The interval is
// half-open: the start instant is inside, the end instant is not.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label returns a display label for the window at its granularity,
// e.g. "2021-12-14", "2021-12" or "2021".
func (w Window) Label() string {
	switch w.Granularity {
	case Day:
		return w.Start.Format("2006-01-02")
	case Month:
		return w.Start.Format("2006-01")
	case Year:
		return w.Start.Format("2006")
	}
	return w.Start.Format(time.RFC3339)
}

// String renders the window as a half-open RFC3339 interval.
func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
