package daterange

import (
	"errors"
	"time"
)

var (
	ErrMissingDate  = errors.New("daterange: start and end dates are required")
	ErrInvalidRange = errors.New("daterange: end date must not be before start date")
)

// DateRange represents an inclusive interval of calendar days [Start, End].
// Both endpoints are occupied nights, so two ranges that merely touch at a
// boundary still overlap. Dates are normalized to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrMissingDate
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !dr.End.Before(other.Start)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return !t.Before(dr.Start) && !t.After(dr.End)
}

// Nights counts the occupied days, endpoints included.
func (dr DateRange) Nights() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

// StartsBefore reports whether the range begins before the given calendar day.
func (dr DateRange) StartsBefore(t time.Time) bool {
	return dr.Start.Before(Day(t))
}
